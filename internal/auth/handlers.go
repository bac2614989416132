package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// Handler exposes HTTP handlers for the sign-up and login endpoints.
type Handler struct {
	Service          *Service
	AccessCookieName string
	CookieSecure     bool
	CookieSameSite   http.SameSite
}

// Routes mounts the auth endpoints on r. limit wraps signup and login; me
// is guarded by requireAuth.
func (h *Handler) Routes(r chi.Router, limit, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)
	})
	me := http.Handler(http.HandlerFunc(h.Me))
	if requireAuth != nil {
		me = requireAuth(me)
	}
	r.Method(http.MethodGet, "/auth/me", me)
	r.Post("/auth/logout", h.Logout)
}

// Signup handles POST /api/v1/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "auth service not configured", nil)
		return
	}
	var req SignupForm
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	created, err := h.Service.Signup(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"user":    created,
			"message": "Your account has been created successfully! Please log in.",
		},
	})
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "auth service not configured", nil)
		return
	}
	var req LoginForm
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.Service.Login(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.setAccessCookie(w, result)
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; only the cookie is cleared.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.AccessCookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.AccessCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.CookieSecure,
			SameSite: h.CookieSameSite,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "auth service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
		return
	}
	u, err := h.Service.Me(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": u})
}

// setAccessCookie stores the token in a cookie. Without "remember me" it is a
// session cookie that the browser drops on close.
func (h *Handler) setAccessCookie(w http.ResponseWriter, result LoginResult) {
	if h.AccessCookieName == "" {
		return
	}
	cookie := &http.Cookie{
		Name:     h.AccessCookieName,
		Value:    result.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.CookieSameSite,
	}
	if result.RememberMe {
		cookie.Expires = result.AccessExpiry
	}
	http.SetCookie(w, cookie)
}
