package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// Allower decides whether one more event for key fits in the window.
type Allower interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// Config describes how to derive a rate limit key and thresholds.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// ByClientIP keys limits on the caller address, scoped by prefix.
func ByClientIP(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + ":" + common.ClientIP(r)
	}
}

// Handler rejects requests over the limit with 429 and advertises the
// window through X-RateLimit-* headers. A failing limiter fails open.
type Handler struct {
	Limiter Allower
	Config  Config
	// OnError observes limiter failures.
	OnError func(error)
	// OnDenied observes rejected keys.
	OnDenied func(key string)
	// Now defaults to time.Now.
	Now func() time.Time
}

// Middleware wraps next.
func (h Handler) Middleware(next http.Handler) http.Handler {
	if h.Config.Key == nil || h.Limiter == nil {
		return next
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	limit := max(h.Config.Max, 0)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.Config.Key(r)
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), key, h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		hdr := w.Header()
		hdr.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		hdr.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		hdr.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		if h.OnDenied != nil {
			h.OnDenied(key)
		}
		hdr.Set("Retry-After", strconv.Itoa(retryAfter(resetAt.Sub(now()))))
		common.JSONError(w, http.StatusTooManyRequests, common.CodeTooManyRequests, "too many requests, please try again later", nil)
	})
}

// retryAfter rounds wait up to whole seconds, never below one.
func retryAfter(wait time.Duration) int {
	secs := int(math.Ceil(wait.Seconds()))
	return max(secs, 1)
}
