package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/skills-enroll/internal/auth"
	"github.com/noah-isme/skills-enroll/internal/catalog"
	"github.com/noah-isme/skills-enroll/internal/contact"
	"github.com/noah-isme/skills-enroll/internal/enrollment"
	"github.com/noah-isme/skills-enroll/internal/health"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/ratelimit"
	"github.com/noah-isme/skills-enroll/internal/security"
)

// AccessCookieName carries the session token for browser clients.
const AccessCookieName = "skills_access"

// RouterOptions toggles the observability middleware.
type RouterOptions struct {
	Tracing        bool
	HTTPMetrics    *obs.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter mounts every HTTP endpoint on a chi router.
func NewRouter(d *Dependencies, opts RouterOptions) http.Handler {
	cfg := d.Config
	secureCookies := cfg.AppEnv == "production"

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.Annotate)
	if opts.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if opts.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: opts.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{
		Enable:     cfg.SecurityHeaders,
		EnableHSTS: secureCookies,
		NoStore:    true,
	}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Location", "Idempotent-Replayed", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}
	probes := map[string]health.Probe{}
	if d.Redis != nil {
		probes["redis"] = health.RedisProbe(d.Redis)
	}
	healthHandler := health.Handler{Probes: probes}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	authMiddleware := auth.Middleware{Service: d.Auth, AccessCookie: AccessCookieName}
	authLimit := ratelimit.Handler{
		Limiter: d.Limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("auth"),
			Window: cfg.AuthRateLimitWindow,
			Max:    cfg.AuthRateLimitMax,
		},
		OnError: func(err error) {
			d.Logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
		OnDenied: func(key string) {
			d.Logger.Info().Str("limit_key", key).Msg("auth rate limit reached")
		},
	}
	authHandler := &auth.Handler{
		Service:          d.Auth,
		AccessCookieName: AccessCookieName,
		CookieSecure:     secureCookies,
		CookieSameSite:   http.SameSiteLaxMode,
	}
	idem := d.Idempotency()
	contactHandler := &contact.Handler{Service: d.Contact}

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(authMiddleware.Authenticate)

		catalog.NewHandler(catalog.HandlerConfig{Catalog: d.Catalog}).Routes(v)
		enrollment.NewHandler(enrollment.HandlerConfig{
			Service:        d.Enrollment,
			CurrencySymbol: cfg.CurrencySymbol,
		}).Routes(v, idem)
		authHandler.Routes(v, authLimit.Middleware, authMiddleware.RequireAuth)

		if idem != nil {
			v.With(idem).Post("/contact", contactHandler.Submit)
		} else {
			v.Post("/contact", contactHandler.Submit)
		}
	})

	if opts.Tracing {
		return otelhttp.NewHandler(r, "http.server")
	}
	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
