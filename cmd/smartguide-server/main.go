package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/smartguide/smartguide/internal/config"
	"github.com/smartguide/smartguide/internal/database"
	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/identity"
	"github.com/smartguide/smartguide/internal/inference"
	"github.com/smartguide/smartguide/internal/inference/openai"
	"github.com/smartguide/smartguide/internal/interview"
	"github.com/smartguide/smartguide/internal/server"
	"github.com/smartguide/smartguide/internal/user"
)

func main() {
	configFile := pflag.String("config", "", "Path to the configuration file")
	addr := pflag.String("addr", "", "Listen address, overrides server.port from the configuration")
	debugMode := pflag.Bool("debug", false, "Enable debug logging")
	pflag.Parse()

	setupLogger(*debugMode)

	if err := run(*configFile, *addr); err != nil {
		slog.Default().Error("Server failed", "error", err)
		os.Exit(1)
	}
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

func run(configFile, addr string) error {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loader.Load() > %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultRetryConfig())
	defer func() {
		_ = openaiClient.Close()
	}()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	handler := server.NewHandler(
		interview.NewService(openaiClient),
		history.NewDBRepository(db),
		gamification.NewDBRepository(db),
		user.NewDBRepository(db),
	)

	var verifier identity.Verifier
	if cfg.Identity.APIKey != "" {
		verifier = identity.NewClient(identity.Config{
			BaseURL: cfg.Identity.BaseURL,
			APIKey:  cfg.Identity.APIKey,
		})
	}

	var h http.Handler = handler.Routes()
	h = server.WithIdentity(verifier, user.NewDBRepository(db), h)
	h = server.CORSMiddleware(cfg.Server.CORS.AllowedOrigins, h)

	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Server.Port)
	}
	slog.Default().Info("Starting API server", "addr", addr)
	if err := http.ListenAndServe(addr, h); err != nil {
		return fmt.Errorf("http.ListenAndServe() > %w", err)
	}
	return nil
}
