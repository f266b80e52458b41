// Package di assembles the application object graph. Providers are plain
// constructors so wiring stays explicit and testable.
package di

import (
	"fmt"
	"net/http"

	"telecare-backend/application/ports"
	"telecare-backend/application/services"
	"telecare-backend/infrastructure/acl"
	"telecare-backend/infrastructure/cache"
	"telecare-backend/infrastructure/config"
	"telecare-backend/infrastructure/persistence/supabase"
	"telecare-backend/interfaces/http/rest"
	"telecare-backend/interfaces/http/rest/handlers"
	"telecare-backend/pkg/auth"
	"telecare-backend/pkg/ratelimit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideRegistry creates the metrics registry with process collectors
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideCacheCounters creates the process-local hit/miss counters
func ProvideCacheCounters() *cache.Counters {
	return cache.NewCounters()
}

// ProvideCacheStore creates the shared cache store. The collector fans
// out to the local counters and, when metrics are enabled, Prometheus.
func ProvideCacheStore(cfg *config.Config, counters *cache.Counters, reg *prometheus.Registry, logger *zap.Logger) (*cache.Store, error) {
	collector := cache.MultiCollector{counters}
	if cfg.EnableMetrics {
		collector = append(collector, cache.NewPrometheusCollector(reg))
	}
	return cache.NewStore(cfg, collector, logger)
}

// ProvideRateLimiter creates the sliding-window rate limiter
func ProvideRateLimiter(store *cache.Store, logger *zap.Logger) *ratelimit.Limiter {
	return ratelimit.NewLimiter(store, logger)
}

// ProvideJWTValidator creates the token validator. Outside production a
// placeholder secret keeps local setups running without a .env file.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideSupabaseClient creates the backing-store client
func ProvideSupabaseClient(cfg *config.Config) (*supa.Client, error) {
	return supabase.NewClient(cfg)
}

// ProvideProfileRepository creates the profile repository
func ProvideProfileRepository(client *supa.Client, logger *zap.Logger) ports.ProfileRepository {
	return supabase.NewProfileRepository(client, logger)
}

// ProvideDoctorRepository creates the doctor repository
func ProvideDoctorRepository(client *supa.Client, logger *zap.Logger) ports.DoctorRepository {
	return supabase.NewDoctorRepository(client, logger)
}

// ProvideAIClient creates the inference client
func ProvideAIClient(cfg *config.Config, logger *zap.Logger) ports.AIClient {
	return acl.NewAIClient(cfg, logger)
}

// Container holds the fully wired application
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *cache.Store
	Handler http.Handler
}

// InitializeContainer builds the complete object graph from configuration
func InitializeContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	registry := ProvideRegistry()
	counters := ProvideCacheCounters()

	store, err := ProvideCacheStore(cfg, counters, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize cache store: %w", err)
	}

	jwtValidator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize jwt validator: %w", err)
	}

	supaClient, err := ProvideSupabaseClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}

	profileRepo := ProvideProfileRepository(supaClient, logger)
	doctorRepo := ProvideDoctorRepository(supaClient, logger)
	aiClient := ProvideAIClient(cfg, logger)

	profileService := services.NewProfileService(profileRepo, store, logger)
	doctorService := services.NewDoctorService(doctorRepo, store, logger)
	aiService := services.NewAIService(aiClient, store, logger)

	limiter := ProvideRateLimiter(store, logger)

	router := rest.NewRouter(
		cfg,
		store,
		counters,
		registry,
		limiter,
		jwtValidator,
		handlers.NewProfileHandler(profileService, logger),
		handlers.NewDoctorHandler(doctorService, logger),
		handlers.NewAIHandler(aiService, logger),
		logger,
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Handler: router.Setup(),
	}, nil
}

// Close releases held resources
func (c *Container) Close() error {
	return c.Store.Close()
}
