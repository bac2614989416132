package obs

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// RequestInfo carries values learned while a request is served so the outer
// logging, metrics and tracing middleware can report them afterwards.
type RequestInfo struct {
	mu        sync.Mutex
	route     string
	sessionID string
}

type requestInfoKey struct{}

// Annotate attaches an empty RequestInfo to every request.
func Annotate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestInfoKey{}, &RequestInfo{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// InfoFromContext returns the request's RequestInfo, or nil outside Annotate.
func InfoFromContext(ctx context.Context) *RequestInfo {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(requestInfoKey{}).(*RequestInfo)
	return info
}

// WithRoute pins the route label for handlers mounted outside chi.
func WithRoute(ctx context.Context, route string) context.Context {
	info := InfoFromContext(ctx)
	if info == nil {
		info = &RequestInfo{}
		ctx = context.WithValue(ctx, requestInfoKey{}, info)
	}
	info.mu.Lock()
	info.route = route
	info.mu.Unlock()
	return ctx
}

// SetSessionID records the enrollment session the request acted on.
func SetSessionID(ctx context.Context, id string) {
	info := InfoFromContext(ctx)
	if info == nil || id == "" {
		return
	}
	info.mu.Lock()
	info.sessionID = id
	info.mu.Unlock()
}

// SessionID returns the recorded enrollment session id.
func (i *RequestInfo) SessionID() string {
	if i == nil {
		return ""
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sessionID
}

// routeOf resolves the route label once the router has matched. chi fills the
// pattern in on the shared route context, so it is only complete after next.
func routeOf(r *http.Request, fallback string) string {
	if info := InfoFromContext(r.Context()); info != nil {
		info.mu.Lock()
		route := info.route
		info.mu.Unlock()
		if route != "" {
			return route
		}
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return fallback
}
