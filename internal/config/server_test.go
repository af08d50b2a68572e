package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "UPSTREAM_URL", "UPSTREAM_TIMEOUT", "DATABASE_URL", "REDIS_URL", "CACHE_TTL",
		"NATS_URL", "SESSION_TTL", "CORS_ALLOWED_ORIGINS", "SEED_DEMO", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearServerEnv(t)

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.UpstreamURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_URL", " http://backend:8080 ")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://jobs.example.com,")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://backend:8080", cfg.UpstreamURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://jobs.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	tests := []struct {
		env   string
		value string
		want  string
	}{
		{env: "PORT", value: "http", want: "invalid PORT"},
		{env: "PORT", value: "70000", want: "PORT out of range"},
		{env: "CACHE_TTL", value: "soon", want: "invalid CACHE_TTL"},
		{env: "SESSION_TTL", value: "5s", want: "SESSION_TTL must be at least 1m"},
		{env: "UPSTREAM_TIMEOUT", value: "-1s", want: "UPSTREAM_TIMEOUT must be positive"},
		{env: "SEED_DEMO", value: "maybe", want: "invalid SEED_DEMO"},
		{env: "LOG_FORMAT", value: "xml", want: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			clearServerEnv(t)
			t.Setenv(tt.env, tt.value)

			cfg, err := LoadServerConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
