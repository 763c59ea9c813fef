package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartguide/smartguide/internal/cli"
	"github.com/smartguide/smartguide/internal/database"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/inference"
	"github.com/smartguide/smartguide/internal/inference/openai"
	"github.com/smartguide/smartguide/internal/interview"
)

func newPracticeCommand() *cobra.Command {
	var saveHistory bool

	command := &cobra.Command{
		Use:   "practice",
		Short: "Interactive interview practice session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}
			fmt.Printf("Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultRetryConfig())
			defer func() {
				_ = openaiClient.Close()
			}()

			var histories history.Repository
			if saveHistory {
				db, err := database.Open(cfg.Database)
				if err != nil {
					return fmt.Errorf("database.Open() > %w", err)
				}
				defer func() {
					_ = db.Close()
				}()
				histories = history.NewDBRepository(db)
			}

			practiceCLI := cli.NewPracticeCLI(interview.NewService(openaiClient), histories)
			return practiceCLI.Run(context.Background())
		},
	}
	command.Flags().BoolVar(&saveHistory, "save", false, "Save each session to the database")

	return command
}
