package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/exhibitor-tools/lineup-portal/internal/auth"
	"github.com/exhibitor-tools/lineup-portal/internal/config"
	"github.com/exhibitor-tools/lineup-portal/internal/logging"
	"github.com/exhibitor-tools/lineup-portal/internal/source"
	"github.com/exhibitor-tools/lineup-portal/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source_backend", cfg.Source.Backend,
		"refresh_interval", cfg.Source.RefreshInterval,
		"window_back_days", cfg.Report.WindowBackDays,
		"window_forward_days", cfg.Report.WindowForwardDays,
	)

	// Build the configured source backend
	src, err := source.New(cfg)
	if err != nil {
		slog.Error("failed to create data source", "error", err)
		os.Exit(1)
	}

	// First load is fatal on error; the dashboard has nothing to show
	// without data. Later refreshes keep the last good snapshot instead.
	ctx := context.Background()
	cache := source.NewCache(src)
	if err := cache.Load(ctx); err != nil {
		slog.Error("failed to load initial data", "source", src.Name(), "error", err)
		os.Exit(1)
	}

	gate := auth.NewGate(cfg.Auth.SharedPassword, cache)
	sessions := auth.NewSessionStore(cfg.Auth.SessionTTL)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Periodic refresh of the source snapshot
	go cache.Run(jobCtx, cfg.Source.RefreshInterval)

	// Create server with config
	server := web.NewServer(cache, gate, sessions, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
