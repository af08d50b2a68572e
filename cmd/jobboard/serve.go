package main

import (
	"fmt"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/logging"
	"github.com/jonathan/jobboard/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the job feed, feed sessions, employer
postings and authentication. Backing services are read from the environment:
DATABASE_URL, UPSTREAM_URL, REDIS_URL and NATS_URL are each optional.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cmd.Context(), cfg, server.Auth{JWT: jwtCfg, Password: passwordCfg}, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting jobboard", zap.Int("port", cfg.Port))
	return srv.Run(cmd.Context())
}
