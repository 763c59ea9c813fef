package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartguide/smartguide/internal/database"
)

func newMigrateCommand() *cobra.Command {
	migrateCommand := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCommand.AddCommand(newMigrateDatabaseCommand())

	return migrateCommand
}

func newMigrateDatabaseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "database",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			fmt.Println("Database schema is up to date.")
			return nil
		},
	}
}
