package auth

import (
	"net/http"
	"strings"

	"github.com/noah-isme/skills-enroll/internal/common"
)

type credentialSource int

const (
	sourceNone credentialSource = iota
	sourceHeader
	sourceCookie
)

// Middleware resolves the caller from a bearer token or the access cookie.
type Middleware struct {
	Service      *Service
	AccessCookie string
}

// Authenticate attaches the principal when the request carries a valid token.
// Anonymous and invalid requests continue without one; an invalid cookie is
// expired so browsers stop sending it.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			next.ServeHTTP(w, r)
			return
		}
		token, source := m.credentials(r)
		if source == sourceNone {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := m.Service.ParseAccessToken(token)
		if err != nil {
			if source == sourceCookie {
				http.SetCookie(w, &http.Cookie{Name: m.AccessCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithPrincipal(r.Context(), principal)))
	})
}

// RequireAuth rejects requests that Authenticate left anonymous. It must run
// after Authenticate.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := common.PrincipalFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		message := "sign in to continue"
		if _, source := m.credentials(r); source != sourceNone {
			message = "session expired or invalid"
		}
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, message, nil)
	})
}

// credentials prefers the Authorization header over the cookie.
func (m Middleware) credentials(r *http.Request) (string, credentialSource) {
	if scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " "); ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token, sourceHeader
		}
	}
	if m.AccessCookie == "" {
		return "", sourceNone
	}
	cookie, err := r.Cookie(m.AccessCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", sourceNone
	}
	return strings.TrimSpace(cookie.Value), sourceCookie
}
