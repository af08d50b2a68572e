package main

import (
	"fmt"

	"github.com/jonathan/jobboard/internal/db"
	"github.com/spf13/cobra"
)

var (
	migrateDBURL string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Connect to PostgreSQL and apply the embedded schema migrations. Migrations are idempotent.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDBURL, "db-url", "", "PostgreSQL connection URL (default from config or $DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dbURL := s.DatabaseURL
	if migrateDBURL != "" {
		dbURL = migrateDBURL
	}
	if dbURL == "" {
		return fmt.Errorf("--db-url or DATABASE_URL is required")
	}

	database, err := db.Connect(cmd.Context(), dbURL)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := database.Migrate(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range applied {
		fmt.Fprintf(out, "applied %s\n", name)
	}
	fmt.Fprintf(out, "Database schema is up to date (%d migrations)\n", len(applied))
	return nil
}
