package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/assetcheck/internal/config"
	"github.com/JonMunkholm/assetcheck/internal/core"
	"github.com/JonMunkholm/assetcheck/internal/core/profiles" // registers the standard profile
	"github.com/JonMunkholm/assetcheck/internal/logging"
	"github.com/JonMunkholm/assetcheck/internal/web"
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
		"default_profile", cfg.Validation.Profile,
		"workers", cfg.Validation.Workers,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	if path := cfg.Validation.ProfilesFile; path != "" {
		keys, err := profiles.LoadFile(path)
		if err != nil {
			slog.Error("failed to load profiles file", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("profiles file loaded", "path", path, "profiles", keys)
	}

	service, err := core.NewService(cfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("profiles registered", "count", core.ProfileCount(), "keys", core.Keys())

	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartRunSweeper(jobCtx, cfg.Validation.SweepInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight validations (with timeout)
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for validations to complete", "active", status.Active)
			if err := service.WaitForValidations(shutdownCtx); err != nil {
				slog.Warn("validations did not complete in time", "error", err)
			} else {
				slog.Info("all validations completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
