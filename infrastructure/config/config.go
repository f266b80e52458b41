package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress          string
	Environment            string
	ShutdownTimeoutSeconds int

	// Redis (shared cache / rate-limit store). Both values absent is a
	// supported state: the app runs with caching and limiting disabled.
	RedisURL   string
	RedisToken string

	// Supabase (backing relational store)
	SupabaseURL string
	SupabaseKey string

	// External generative-AI API
	AIEndpoint string
	AIAPIKey   string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables. A local .env
// file is honored when present; missing files are not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:          getEnv("SERVER_ADDRESS", ":8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		ShutdownTimeoutSeconds: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30),

		RedisURL:   getEnv("REDIS_URL", ""),
		RedisToken: getEnv("REDIS_TOKEN", ""),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_ANON_KEY", ""),

		AIEndpoint: getEnv("AI_API_ENDPOINT", ""),
		AIAPIKey:   getEnv("AI_API_KEY", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "telecare-backend"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present.
// Redis credentials are deliberately not required: their absence means
// caching and rate limiting are disabled, not that startup fails.
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required in production")
		}
	}

	return nil
}

// RedisConfigured reports whether cache store credentials were supplied
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
