package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/trash-classifier/config"
	"github.com/target/trash-classifier/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.LoggerFor(&cfg, logger)
	logStartupInfo(ctx, logger, &cfg)

	services, err := bootstrap.BuildServices(ctx, &bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	return bootstrap.Run(ctx, &bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting trash classifier",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"session_store", cfg.Session.Store,
		"genai_model", cfg.GenAI.Model,
		"metrics_enabled", cfg.Metrics.Enabled)
}
