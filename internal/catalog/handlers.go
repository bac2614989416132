package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	catalog *Catalog
	about   About
}

// HandlerConfig configures the Handler dependencies. A nil About serves DefaultAbout.
type HandlerConfig struct {
	Catalog *Catalog
	About   *About
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	about := DefaultAbout()
	if cfg.About != nil {
		about = *cfg.About
	}
	return &Handler{catalog: cfg.Catalog, about: about}
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/courses", h.Courses)
	r.Get("/courses/{id}", h.Course)
	r.Get("/about", h.About)
}

// Courses handles GET /api/v1/courses with optional tier and title filters.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog not configured", nil)
		return
	}
	query := r.URL.Query()
	courses := h.catalog.Search(query.Get("q"))
	if raw := strings.TrimSpace(query.Get("tier")); raw != "" {
		tier, err := ParseTier(raw)
		if err != nil {
			common.WriteError(w, common.BadRequest("invalid tier", err).WithDetails(map[string]any{
				"tier":    raw,
				"allowed": Tiers(),
			}))
			return
		}
		filtered := courses[:0]
		for _, c := range courses {
			if c.Tier == tier {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": courses})
}

// Course handles GET /api/v1/courses/{id}.
func (h *Handler) Course(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	course, ok := h.catalog.FindByID(id)
	if !ok {
		common.WriteError(w, common.NotFound("course not found", nil).WithDetails(map[string]any{"id": id}))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": course})
}
