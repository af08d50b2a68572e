package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/logging"
	"github.com/jonathan/jobboard/internal/observability"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultUpstreamURL    = "http://localhost:8080"
	defaultTimeoutSeconds = 30
)

// settings is the resolved configuration of a client command.
type settings struct {
	config.Config
	logger  *zap.Logger
	printer *observability.Printer
}

// Timeout returns the backend request timeout.
func (s *settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// loadSettings resolves client settings. Explicit flags win over the config
// file, which wins over UPSTREAM_URL and DATABASE_URL, which win over defaults.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	var cfg config.Config
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err := fileCfg.Validate(); err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.UpstreamURL = upstream
	}
	if flags.Changed("timeout") {
		if timeoutSec <= 0 {
			return nil, fmt.Errorf("--timeout must be positive, got %d", timeoutSec)
		}
		cfg.TimeoutSeconds = timeoutSec
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		UpstreamURL:    strings.TrimSpace(os.Getenv("UPSTREAM_URL")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PageSize:       feed.DefaultPageSize,
		TimeoutSeconds: defaultTimeoutSeconds,
	})
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = defaultUpstreamURL
	}

	return &settings{
		Config:  cfg,
		logger:  logging.NewCLI(cfg.Verbose),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

// newClient builds a postings client for the resolved backend.
func (s *settings) newClient() (*postings.Client, error) {
	opts := postings.DefaultOptions()
	opts.Timeout = s.Timeout()
	return postings.NewClient(s.UpstreamURL, opts, s.logger)
}
