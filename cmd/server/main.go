// Umurima - USSD gateway for agricultural extension services
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/umurima-rw/umurima/internal/bridge"
	"github.com/umurima-rw/umurima/internal/config"
	"github.com/umurima-rw/umurima/internal/divisions"
	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/matching"
	"github.com/umurima-rw/umurima/internal/middleware"
	"github.com/umurima-rw/umurima/internal/session"
	"github.com/umurima-rw/umurima/internal/store"
	"github.com/umurima-rw/umurima/internal/ussd"
	"github.com/umurima-rw/umurima/internal/weather"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "session_ttl", cfg.SessionTTL)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	div, err := divisions.NewEmbedded()
	if err != nil {
		slog.Error("Failed to load administrative divisions", "error", err)
		os.Exit(1)
	}

	var wx weather.Lookup = weather.Unavailable{}
	if cfg.WeatherURL != "" {
		wx = weather.NewClient(cfg.WeatherURL)
		slog.Info("Weather lookup enabled", "url", cfg.WeatherURL)
	} else {
		slog.Info("Weather lookup disabled (WEATHER_URL not set)")
	}

	var notifier bridge.Notifier = bridge.Noop{}
	if cfg.SyncURL != "" {
		notifier = bridge.NewHTTPNotifier(cfg.SyncURL)
		slog.Info("Sync bridge enabled", "url", cfg.SyncURL)
	} else {
		slog.Info("Sync bridge disabled (SYNC_URL not set)")
	}

	// Initialize services.
	sessions := session.NewMemoryStore(domain.Language(cfg.DefaultLanguage))
	matcher := matching.NewEngine(repo)
	machine := ussd.NewMachine(sessions, repo, div, matcher, wx, notifier)
	handler := ussd.NewHandler(machine)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.GatewayAuth(cfg.GatewayKey))

	handler.RegisterRoutes(r)

	// Create server. USSD gateways expect sub-second answers; keep
	// timeouts tight so a stuck collaborator surfaces as a transport
	// timeout rather than a hung dialog.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start session sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, sessions, cfg.SessionSweepInterval, cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
