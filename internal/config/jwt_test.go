package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, DefaultJWTIssuer, cfg.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Expiration())
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("JWT_ISSUER", "jobs.example.com")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ExpirationHours)
	assert.Equal(t, "jobs.example.com", cfg.Issuer)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "not a number", value: "abc", want: "invalid JWT_EXPIRATION_HOURS"},
		{name: "zero", value: "0", want: "at least 1 hour"},
		{name: "negative", value: "-3", want: "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.value)

			cfg, err := NewJWTConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
