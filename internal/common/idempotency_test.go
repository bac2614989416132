package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) (Idem, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}, mr
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	idem, _ := newIdem(t)
	var calls int32
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"call": n}})
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", nil)
	req.Header.Set("Idempotency-Key", "abc")
	h.ServeHTTP(first, req)
	require.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", nil)
	req.Header.Set("Idempotency-Key", "abc")
	h.ServeHTTP(second, req)
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), second.Body.String())
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	idem, _ := newIdem(t)
	var calls int32
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.Header.Set("Idempotency-Key", "retry-me")
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	}
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyInFlightConflict(t *testing.T) {
	idem, mr := newIdem(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrollments", nil)
	req.Header.Set("Idempotency-Key", "busy")
	require.NoError(t, mr.Set(idemKey(req, "busy"), idemPending+Sha256Hex("")))

	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	idem, _ := newIdem(t)
	var calls int32
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"echo": string(body)}})
	}))
	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/fees/calculate", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "quote-1")
		h.ServeHTTP(rec, req)
		return rec
	}

	first := post(`{"courseIds":["sewing"]}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), "sewing")

	changed := post(`{"courseIds":["cooking"]}`)
	require.Equal(t, http.StatusUnprocessableEntity, changed.Code)
	require.Contains(t, changed.Body.String(), CodeIdempotencyKeyReused)
	require.Empty(t, changed.Header().Get("Idempotent-Replayed"))

	same := post(`{"courseIds":["sewing"]}`)
	require.Equal(t, http.StatusOK, same.Code)
	require.Equal(t, "true", same.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), same.Body.String())
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyInFlightWithDifferentBody(t *testing.T) {
	idem, mr := newIdem(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fees/calculate", strings.NewReader(`{"courseIds":["cooking"]}`))
	req.Header.Set("Idempotency-Key", "busy")
	require.NoError(t, mr.Set(idemKey(req, "busy"), idemPending+Sha256Hex(`{"courseIds":["sewing"]}`)))

	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIdempotencyPassThroughWithoutKey(t *testing.T) {
	idem, _ := newIdem(t)
	var calls int32
	h := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))
	}
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
