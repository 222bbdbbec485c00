package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "catalog-api", cfg.JWT.Issuer)
	assert.Equal(t, "catalog-users", cfg.DynamoDB.UsersTableName)
	assert.Equal(t, "catalog-motors", cfg.DynamoDB.MotorsTableName)
	assert.Equal(t, "catalog-images", cfg.S3.Bucket)
	assert.Equal(t, "/metrics", cfg.Observability.MetricsPath)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("RATE_LIMIT_EXEMPT_PATHS", "/healthz, /version")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "override-secret", cfg.JWT.Secret)
	assert.Equal(t, []string{"/healthz", "/version"}, cfg.RateLimit.ExemptPaths)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = "not-a-port" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"non-positive jwt ttl", func(c *Config) { c.JWT.TTL = 0 }},
		{"sample rate above one", func(c *Config) { c.Observability.SampleRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}
