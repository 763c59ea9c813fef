package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartguide/smartguide/internal/database"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/report"
	"github.com/smartguide/smartguide/internal/statistics"
)

func newReportCommand() *cobra.Command {
	var userID string
	var limit int

	command := &cobra.Command{
		Use:   "report",
		Short: "Generate a PDF practice report from stored history",
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

			histories := history.NewDBRepository(db)
			records, err := histories.FindRecent(cmd.Context(), userID, limit)
			if err != nil {
				return fmt.Errorf("histories.FindRecent() > %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No practice history found, nothing to report.")
				return nil
			}

			pdfPath, err := report.Generate(cfg.Reports.OutputDirectory, report.Data{
				GeneratedAt: time.Now(),
				Performance: statistics.Calculate(records),
				Recent:      records,
			})
			if err != nil {
				return fmt.Errorf("report.Generate() > %w", err)
			}

			fmt.Printf("Report written to %s\n", pdfPath)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "Only include sessions for this user id")
	command.Flags().IntVar(&limit, "limit", history.DefaultListLimit, "Maximum number of sessions to include")

	return command
}
