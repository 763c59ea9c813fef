package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "smartguide",
		Short:         "Interview practice sessions, reports and database tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to the configuration file")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(newPracticeCommand())
	rootCommand.AddCommand(newReportCommand())
	rootCommand.AddCommand(newMigrateCommand())

	return rootCommand
}

func setupLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
	slog.SetDefault(logger)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Default().Error("Command failed", "error", err)
		os.Exit(1)
	}
}
