package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig is the environment-driven configuration of `jobboard serve`.
type ServerConfig struct {
	Port            int
	UpstreamURL     string        // remote postings backend; empty serves from the local store
	UpstreamTimeout time.Duration // per-request timeout for the remote backend
	DatabaseURL     string        // Postgres store; empty uses the in-memory store
	RedisURL        string        // listing cache; empty disables caching
	CacheTTL        time.Duration
	NATSURL         string // posting events; empty disables publishing
	SessionTTL      time.Duration
	AllowedOrigins  []string
	SeedDemo        bool
	LogLevel        string
	LogFormat       string
}

// DefaultServerConfig returns the configuration used when nothing is set.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8080,
		UpstreamTimeout: 30 * time.Second,
		CacheTTL:        60 * time.Second,
		SessionTTL:      30 * time.Minute,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// LoadServerConfig reads the server configuration from environment variables:
// PORT, UPSTREAM_URL, UPSTREAM_TIMEOUT, DATABASE_URL, REDIS_URL, CACHE_TTL,
// NATS_URL, SESSION_TTL, CORS_ALLOWED_ORIGINS, SEED_DEMO, LOG_LEVEL, LOG_FORMAT.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	cfg.UpstreamURL = strings.TrimSpace(os.Getenv("UPSTREAM_URL"))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.NATSURL = os.Getenv("NATS_URL")

	durations := []struct {
		env    string
		target *time.Duration
	}{
		{"UPSTREAM_TIMEOUT", &cfg.UpstreamTimeout},
		{"CACHE_TTL", &cfg.CacheTTL},
		{"SESSION_TTL", &cfg.SessionTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", d.env, err)
		}
		*d.target = parsed
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SEED_DEMO"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_DEMO: %v", err)
		}
		cfg.SeedDemo = seed
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got: %s", c.UpstreamTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got: %s", c.CacheTTL)
	}
	if c.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got: %s", c.SessionTTL)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %q", c.LogFormat)
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
