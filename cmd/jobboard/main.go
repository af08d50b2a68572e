// Package main provides the jobboard command: the HTTP API server plus
// terminal clients for browsing the feed and managing postings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	upstream   string
	timeoutSec int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Job board API server and terminal client",
	Long: "jobboard serves the job board REST API and browses, filters and publishes " +
		"postings against a running backend from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&upstream, "url", "", "Postings backend base URL (default "+defaultUpstreamURL+")")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "Backend request timeout in seconds (default 30)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
