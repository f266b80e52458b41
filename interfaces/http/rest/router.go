// Package rest wires the HTTP surface: routing, middleware ordering and
// the operational endpoints.
package rest

import (
	"net/http"

	"telecare-backend/infrastructure/cache"
	"telecare-backend/infrastructure/config"
	"telecare-backend/interfaces/http/rest/handlers"
	"telecare-backend/interfaces/http/rest/middleware"
	"telecare-backend/pkg/auth"
	"telecare-backend/pkg/common"
	"telecare-backend/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	store    *cache.Store
	counters *cache.Counters
	registry *prometheus.Registry
	limiter  *ratelimit.Limiter
	jwt      *auth.JWTValidator

	profiles *handlers.ProfileHandler
	doctors  *handlers.DoctorHandler
	ai       *handlers.AIHandler

	logger *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	store *cache.Store,
	counters *cache.Counters,
	registry *prometheus.Registry,
	limiter *ratelimit.Limiter,
	jwt *auth.JWTValidator,
	profiles *handlers.ProfileHandler,
	doctors *handlers.DoctorHandler,
	ai *handlers.AIHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		store:    store,
		counters: counters,
		registry: registry,
		limiter:  limiter,
		jwt:      jwt,
		profiles: profiles,
		doctors:  doctors,
		ai:       ai,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.telecare.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwt, rt.logger))

		r.Route("/doctors", func(r chi.Router) {
			r.Use(middleware.RateLimit(rt.limiter, ratelimit.Listing))
			r.Get("/", rt.doctors.ListDoctors)
			r.Get("/{id}", rt.doctors.GetDoctor)
		})

		r.Route("/profile", func(r chi.Router) {
			r.With(middleware.RateLimit(rt.limiter, ratelimit.Default)).
				Get("/", rt.profiles.GetProfile)
			r.With(middleware.RateLimit(rt.limiter, ratelimit.Mutation)).
				Put("/", rt.profiles.UpdateProfile)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(middleware.RateLimit(rt.limiter, ratelimit.AI))
			r.Post("/analyze-image", rt.ai.AnalyzeImage)
			r.Post("/review-answers", rt.ai.ReviewAnswers)
		})

		r.Get("/cache/stats", rt.cacheStats)
	})

	return router
}

// healthCheck reports process liveness
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether dependencies are reachable. The cache
// store is optional infrastructure, so an unreachable store degrades the
// payload but never fails readiness.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	cacheStatus := "disabled"
	if rt.store.IsConfigured() {
		cacheStatus = "up"
		if err := rt.store.Ping(req.Context()); err != nil {
			cacheStatus = "down"
		}
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"cache":  cacheStatus,
	})
}

// cacheStats exposes hit/miss counters for the running process
func (rt *Router) cacheStats(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, rt.counters.Snapshot())
}
