package enrollment_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skills-enroll/internal/catalog"
	"github.com/noah-isme/skills-enroll/internal/enrollment"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type sessionBody struct {
	ID        string `json:"id"`
	Selection struct {
		CourseIDs       []string `json:"courseIds"`
		RunningSubtotal string   `json:"runningSubtotal"`
	} `json:"selection"`
	RunningSubtotalDisplay string `json:"runningSubtotalDisplay"`
}

type resultBody struct {
	PersonalInfo enrollment.PersonalInfo `json:"personalInfo"`
	Breakdown    pricing.Breakdown       `json:"breakdown"`
	Display      pricing.Display         `json:"display"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.Default(catalog.DefaultPrices())
	require.NoError(t, err)
	calc, err := pricing.NewCalculator(pricing.DefaultConfig())
	require.NoError(t, err)
	svc, err := enrollment.NewService(enrollment.ServiceConfig{Catalog: cat, Calculator: calc})
	require.NoError(t, err)

	r := chi.NewRouter()
	enrollment.NewHandler(enrollment.HandlerConfig{Service: svc, CurrencySymbol: "R"}).Routes(r, nil)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestEnrollmentEndpoints(t *testing.T) {
	h := newRouter(t)

	rec, env := do(t, h, http.MethodPost, "/enrollments", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess sessionBody
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	require.NotEmpty(t, sess.ID)
	require.Equal(t, "/api/v1/enrollments/"+sess.ID, rec.Header().Get("Location"))
	require.Equal(t, "R0.00", sess.RunningSubtotalDisplay)

	for _, id := range []string{"first-aid", "child-minding"} {
		rec, env = do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/toggle", map[string]string{"courseId": id})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	require.Equal(t, []string{"first-aid", "child-minding"}, sess.Selection.CourseIDs)
	require.Equal(t, "R2250.00", sess.RunningSubtotalDisplay)

	rec, env = do(t, h, http.MethodGet, "/enrollments/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/calculate", map[string]any{
		"personalInfo": map[string]string{"name": "Sipho", "phone": "0731234567", "email": "sipho@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var result resultBody
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, "2458.13", result.Breakdown.Total.String())
	require.Equal(t, "R2458.13", result.Display.Total)
	require.Equal(t, "5%", result.Display.Discount)
	require.Equal(t, "15%", result.Display.Tax)
	require.Equal(t, "R1500.00", result.Display.LineItems["first-aid"])

	rec, _ = do(t, h, http.MethodDelete, "/enrollments/"+sess.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/enrollments/"+sess.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEnrollmentValidationErrors(t *testing.T) {
	h := newRouter(t)
	_, env := do(t, h, http.MethodPost, "/enrollments", nil)
	var sess sessionBody
	require.NoError(t, json.Unmarshal(env.Data, &sess))

	rec, env := do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/calculate", map[string]any{
		"personalInfo": map[string]string{"name": "", "phone": "0731234567", "email": "nope"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	fields := env.Error.Details["fields"].(map[string]any)
	require.Equal(t, "Full Name is required.", fields["name"])
	require.Equal(t, "Please enter a valid email address.", fields["email"])
	require.Equal(t, "Please select at least one course.", fields["courses"])
	require.NotContains(t, fields, "phone")

	rec, env = do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/toggle", map[string]string{"courseId": "archery"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BAD_REQUEST", env.Error.Code)

	rec, _ = do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/toggle", map[string]string{"courseId": " "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/enrollments/"+sess.ID+"/toggle", map[string]string{"course": "sewing"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteEndpoint(t *testing.T) {
	h := newRouter(t)
	info := map[string]string{"name": "Lindiwe", "phone": "0611234567", "email": "lindiwe@example.org"}

	rec, env := do(t, h, http.MethodPost, "/fees/calculate", map[string]any{
		"courseIds":    []string{"sewing", "first-aid"},
		"personalInfo": info,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var result resultBody
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, "3277.5", result.Breakdown.Total.String())
	require.Equal(t, "R3277.50", result.Display.Total)

	rec, env = do(t, h, http.MethodPost, "/fees/calculate", map[string]any{
		"courseIds":    []string{"sewing", "pottery"},
		"personalInfo": info,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, enrollment.CodeUnresolvedCourses, env.Error.Code)
	require.Equal(t, []any{"pottery"}, env.Error.Details["ids"])
}

func TestHandlerWithoutService(t *testing.T) {
	h := enrollment.NewHandler(enrollment.HandlerConfig{})
	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/enrollments", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
