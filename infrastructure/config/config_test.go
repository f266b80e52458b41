package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Shield the asserted fields from ambient environment
	for _, key := range []string{"SERVER_ADDRESS", "ENVIRONMENT", "SHUTDOWN_TIMEOUT_SECONDS", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 30, cfg.ShutdownTimeoutSeconds)
	assert.False(t, cfg.RedisConfigured())
}

func TestLoadConfig_IntOverride(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.ShutdownTimeoutSeconds)
}

func TestLoadConfig_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ShutdownTimeoutSeconds)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{Environment: "production"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "s"
	cfg.SupabaseURL = "https://example.supabase.co"
	cfg.SupabaseKey = "anon"
	assert.NoError(t, cfg.Validate())
}
