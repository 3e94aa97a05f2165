package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/conference-booking/internal/auth"
	"github.com/Shivanand-hulikatti/conference-booking/internal/cache"
	"github.com/Shivanand-hulikatti/conference-booking/internal/config"
	"github.com/Shivanand-hulikatti/conference-booking/internal/database"
	"github.com/Shivanand-hulikatti/conference-booking/internal/handler"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
	"github.com/Shivanand-hulikatti/conference-booking/internal/service"
	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

// openStore returns the configured backend and a cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store.Backend == "memory" {
		slog.Warn("using in-memory store; data is lost on exit")
		return repository.NewMemoryStore(), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	slog.Info("connected to PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Name)

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(pool, "up"); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("database migrations applied")
	}
	return repository.NewPostgresStore(pool), pool.Close, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	tracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	// ── 1. Open the store ─────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	policy := retryPolicy(cfg)
	names := cache.NewDisplayNames(store.DisplayNames, cfg.Cache.DisplayNameTTL, cfg.Cache.CleanupInterval)
	conferenceHandler := handler.NewConferenceHandler(
		service.NewConferenceService(store, names, policy),
		service.NewRegistrationCoordinator(store, policy),
		service.NewProfileService(store, names, policy),
	)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// ── 3. Build the router ───────────────────────────────────────────────
	opts := handler.RouterOptions{}
	if cfg.Telemetry.Metrics.Enabled {
		opts.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	r := handler.NewRouter(conferenceHandler, verifier, opts)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		slog.Warn("tracer shutdown failed", "error", err)
	}
	slog.Info("server stopped")
	return nil
}
