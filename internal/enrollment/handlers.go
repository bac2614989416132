package enrollment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/pricing"
)

// Handler exposes the enrollment and fee endpoints.
type Handler struct {
	service  *Service
	currency string
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service        *Service
	CurrencySymbol string
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	currency := cfg.CurrencySymbol
	if currency == "" {
		currency = "R"
	}
	return &Handler{service: cfg.Service, currency: currency}
}

// Routes mounts the enrollment endpoints on r. idem wraps the mutating
// start and stateless quote endpoints; pass nil to skip idempotency.
func (h *Handler) Routes(r chi.Router, idem func(http.Handler) http.Handler) {
	wrap := func(fn http.HandlerFunc) http.Handler {
		if idem == nil {
			return fn
		}
		return idem(fn)
	}
	r.Method(http.MethodPost, "/enrollments", wrap(h.Start))
	r.Get("/enrollments/{id}", h.Get)
	r.Delete("/enrollments/{id}", h.Reset)
	r.Post("/enrollments/{id}/toggle", h.Toggle)
	r.Post("/enrollments/{id}/calculate", h.Calculate)
	r.Method(http.MethodPost, "/fees/calculate", wrap(h.Quote))
}

type sessionView struct {
	Session
	RunningSubtotalDisplay string `json:"runningSubtotalDisplay"`
}

type resultView struct {
	Result
	Display pricing.Display `json:"display"`
}

type toggleRequest struct {
	CourseID string `json:"courseId"`
}

type calculateRequest struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
}

type quoteRequest struct {
	CourseIDs    []string     `json:"courseIds"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
}

// Start handles POST /api/v1/enrollments.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	sess, err := h.service.Start(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.SetSessionID(r.Context(), sess.ID)
	w.Header().Set("Location", "/api/v1/enrollments/"+sess.ID)
	common.JSON(w, http.StatusCreated, map[string]any{"data": h.sessionView(sess)})
}

// Get handles GET /api/v1/enrollments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	sess, err := h.service.Get(r.Context(), sessionParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionView(sess)})
}

// Toggle handles POST /api/v1/enrollments/{id}/toggle.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	var req toggleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	courseID := strings.TrimSpace(req.CourseID)
	if courseID == "" {
		h.writeError(w, common.BadRequest("courseId is required", nil))
		return
	}
	sess, err := h.service.Toggle(r.Context(), sessionParam(r), courseID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionView(sess)})
}

// Calculate handles POST /api/v1/enrollments/{id}/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	var req calculateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.service.Calculate(r.Context(), sessionParam(r), req.PersonalInfo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.resultView(result)})
}

// Quote handles POST /api/v1/fees/calculate.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	var req quoteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.service.Quote(r.Context(), req.CourseIDs, req.PersonalInfo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.resultView(result)})
}

// Reset handles DELETE /api/v1/enrollments/{id}.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "enrollment service not configured", nil)
		return
	}
	if err := h.service.Reset(r.Context(), sessionParam(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionParam reads the {id} path segment and tags the request with it.
func sessionParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	obs.SetSessionID(r.Context(), id)
	return id
}

func (h *Handler) sessionView(sess Session) sessionView {
	return sessionView{
		Session:                sess,
		RunningSubtotalDisplay: pricing.Format(sess.Selection.RunningSubtotal(), h.currency),
	}
}

func (h *Handler) resultView(result Result) resultView {
	return resultView{Result: result, Display: pricing.Present(result.Breakdown, h.currency)}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if appErr := toAppError(err); appErr != nil {
		common.WriteError(w, appErr)
		return
	}
	common.WriteError(w, err)
}
