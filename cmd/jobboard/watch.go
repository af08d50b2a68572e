package main

import (
	"context"
	"fmt"

	"github.com/jonathan/jobboard/internal/events"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/spf13/cobra"
)

var (
	watchNATSURL string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print postings as they are created",
	Long:  "Subscribe to posting-created events on NATS and print each new posting until interrupted.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchNATSURL, "nats-url", "", "NATS URL (default $NATS_URL)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	natsURL := flagOrEnv(watchNATSURL, "NATS_URL")
	if natsURL == "" {
		return fmt.Errorf("--nats-url or NATS_URL is required")
	}

	subscriber, err := events.NewSubscriber(natsURL, s.Timeout(), s.logger)
	if err != nil {
		return err
	}
	defer subscriber.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for new postings (Ctrl+C to stop)\n", events.PostingCreatedSubject)
	return subscriber.Listen(cmd.Context(), func(_ context.Context, post types.JobPosting) {
		s.printer.PrintPosting("NEW POSTING", &post)
	})
}
