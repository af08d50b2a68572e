package main

import (
	"fmt"

	"github.com/jonathan/jobboard/internal/dashboard"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/spf13/cobra"
)

var (
	dashboardEmployerID string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show an employer's postings and statistics",
	Long: `List the backend postings owned by an employer and print the dashboard
statistics. An employer without postings sees the demo dashboard.`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardEmployerID, "employer-id", "", "Employer id (default from config)")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	employerID := s.EmployerID
	if dashboardEmployerID != "" {
		employerID = dashboardEmployerID
	}
	if employerID == "" {
		return fmt.Errorf("--employer-id is required")
	}

	client, err := s.newClient()
	if err != nil {
		return err
	}
	posts, err := client.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load postings: %w", err)
	}

	var own []types.JobPosting
	for _, p := range posts {
		if p.EmployerID == employerID {
			own = append(own, p)
		}
	}

	s.printer.PrintDashboard(dashboard.Build(own))
	return nil
}
