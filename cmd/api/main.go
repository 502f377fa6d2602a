package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geoguard/platform/internal/app"
	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/infra"
	"github.com/geoguard/platform/internal/provider"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	// Run migrations
	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Parse JWT expiry durations
	commanderExpiry, err := time.ParseDuration(cfg.JWTCommanderExpiry)
	if err != nil {
		return fmt.Errorf("parse commander JWT expiry: %w", err)
	}
	subCommanderExpiry, err := time.ParseDuration(cfg.JWTSubCommanderExpiry)
	if err != nil {
		return fmt.Errorf("parse sub-commander JWT expiry: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, commanderExpiry, subCommanderExpiry)

	// Decoy generator
	breaker := guard.NewCircuitBreaker(5, 30*time.Second)
	generator, err := provider.NewGeminiDecoyClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, breaker, logger)
	if err != nil {
		return fmt.Errorf("create decoy generator: %w", err)
	}

	// Kafka producer + outbox poller
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	poller := infra.NewOutboxPoller(pool, producer, cfg.KafkaTopic, logger)
	poller.Start(ctx)

	// Router
	r := app.NewRouter(app.RouterDeps{
		Pool:                  pool,
		JWTMgr:                jwtMgr,
		Logger:                logger,
		Generator:             generator,
		RootCommanderUsername: cfg.RootCommanderUsername,
		RootCommanderPassword: cfg.RootCommanderPassword,
		DecoyRadiusKm:         cfg.DecoyRadiusKm,
		DefaultMapID:          cfg.DefaultMapID,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
