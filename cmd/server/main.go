package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gokul-culfit/d2c-uploader/internal/config"
	"github.com/gokul-culfit/d2c-uploader/internal/core"
	"github.com/gokul-culfit/d2c-uploader/internal/logging"
	"github.com/gokul-culfit/d2c-uploader/internal/uploader"
	"github.com/gokul-culfit/d2c-uploader/internal/web"
	"github.com/gokul-culfit/d2c-uploader/internal/webhook"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"auth_required", cfg.Auth.Require,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"webhook_batch_size", cfg.Webhook.BatchSize,
	)

	registry := uploader.NewRegistry(uploader.Definitions()...)
	slog.Info("uploaders registered", "count", registry.Count())

	delivery := webhook.New(webhook.Config{
		BaseURL:     cfg.Webhook.BaseURL,
		Timeout:     cfg.Webhook.Timeout,
		BatchSize:   cfg.Webhook.BatchSize,
		MaxAttempts: cfg.Webhook.MaxAttempts,
		RetryDelay:  cfg.Webhook.RetryDelay,
	})

	service := core.NewService(registry, delivery)
	server := web.NewServer(cfg, service)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
