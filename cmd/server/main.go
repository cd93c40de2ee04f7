// Package main is the entry point for the guest registry server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/guest-registry/backend/internal/api"
	"github.com/guest-registry/backend/internal/calendar"
	"github.com/guest-registry/backend/internal/config"
	"github.com/guest-registry/backend/internal/housekeeping"
	"github.com/guest-registry/backend/internal/ical"
	"github.com/guest-registry/backend/internal/metrics"
	"github.com/guest-registry/backend/internal/storage"
	"github.com/guest-registry/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Server.Addr); err != nil {
			logger.Fatal().Err(err).Msg("Health check failed")
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	logger.Info().Str("version", version).Msg("Starting guest registry server")

	// Initialize database
	db, err := storage.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Info().Msg("Database migrations complete")

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	broadcaster := websocket.NewEventBroadcaster(hub)

	// Initialize repositories
	adminRepo := storage.NewAdminRepository(db)
	amenityRepo := storage.NewAmenityRepository(db)
	calendarRepo := storage.NewCalendarRepository(db)
	tripRepo := storage.NewTripRepository(db)
	taskRepo := storage.NewHousekeepingRepository(db)

	// Initialize services
	fetcher := ical.NewFetcher(cfg.RequestTimeout())
	syncService := calendar.NewSyncService(db, calendarRepo, amenityRepo, tripRepo, fetcher, logger)
	derivator := housekeeping.NewDerivator(
		db, calendarRepo, amenityRepo, adminRepo, tripRepo, taskRepo,
		logger, cfg.Housekeeping.DefaultPay,
	)

	scheduler := calendar.NewScheduler(syncService, calendarRepo, hub, logger)
	if err := scheduler.Start(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Failed to start calendar scheduler")
	}

	// Initialize HTTP router
	router := api.NewRouter(api.Services{
		DB:          db,
		Hub:         hub,
		Broadcaster: broadcaster,
		SyncService: syncService,
		Scheduler:   scheduler,
		Derivator:   derivator,
		Logger:      logger,
		StaticDir:   cfg.Server.StaticDir,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
