package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/jobboard/internal/db"
	"github.com/jonathan/jobboard/internal/events"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	statusRedisURL string
	statusNATSURL  string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the backend and backing services",
	Long: `Probe the postings backend and, when configured, PostgreSQL, Redis and
NATS. All probes run concurrently. The command fails if any probe fails.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRedisURL, "redis-url", "", "Redis URL to probe (default $REDIS_URL)")
	statusCmd.Flags().StringVar(&statusNATSURL, "nats-url", "", "NATS URL to probe (default $NATS_URL)")
	rootCmd.AddCommand(statusCmd)
}

// probe is one named connectivity check.
type probe struct {
	name  string
	check func(ctx context.Context) postings.Status
}

// probeStatus times check and reports its error as a Status.
func probeStatus(ctx context.Context, check func(ctx context.Context) error) postings.Status {
	start := time.Now()
	err := check(ctx)
	latency := time.Since(start)
	if err != nil {
		return postings.Status{Latency: latency, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	return postings.Status{Connected: true, Latency: latency, Message: "Reachable"}
}

func flagOrEnv(value, env string) string {
	if value != "" {
		return value
	}
	return os.Getenv(env)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client, err := s.newClient()
	if err != nil {
		return err
	}

	probes := []probe{{name: "backend " + client.BaseURL(), check: client.Ping}}

	if s.DatabaseURL != "" {
		probes = append(probes, probe{name: "postgres", check: func(ctx context.Context) postings.Status {
			return probeStatus(ctx, func(ctx context.Context) error {
				database, err := db.Connect(ctx, s.DatabaseURL)
				if err != nil {
					return err
				}
				defer database.Close()
				return database.Ping(ctx)
			})
		}})
	}
	if redisURL := flagOrEnv(statusRedisURL, "REDIS_URL"); redisURL != "" {
		probes = append(probes, probe{name: "redis", check: func(ctx context.Context) postings.Status {
			return probeStatus(ctx, func(ctx context.Context) error {
				cache, err := postings.NewRedisCacheFromURL(redisURL)
				if err != nil {
					return err
				}
				defer func() { _ = cache.Close() }()
				return cache.Ping(ctx)
			})
		}})
	}
	if natsURL := flagOrEnv(statusNATSURL, "NATS_URL"); natsURL != "" {
		probes = append(probes, probe{name: "nats", check: func(ctx context.Context) postings.Status {
			return probeStatus(ctx, func(context.Context) error {
				return events.Ping(natsURL, s.Timeout())
			})
		}})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), s.Timeout())
	defer cancel()

	results := make([]postings.Status, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			results[i] = p.check(gctx)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, p := range probes {
		s.printer.PrintBackendStatus(p.name, results[i])
		if !results[i].Connected {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(probes))
	}
	return nil
}
