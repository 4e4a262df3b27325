// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package app wires configuration, storage, services, the HTTP API and
// the background scheduler into a runnable application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferrovia/mantix/internal/api"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/repository/postgres"
	"github.com/ferrovia/mantix/internal/repository/redis"
	"github.com/ferrovia/mantix/internal/scheduler"
)

// Application holds the long-lived components of a running instance.
type Application struct {
	Config *Config
	Logger *logger.Logger
	DB     *postgres.DB
	Redis  *redis.Client
	Server *api.Server

	// Background scheduler, nil when disabled in config.
	schedulerService *scheduler.Scheduler
}

// Run starts the application with the given configuration
func Run(cfgFile string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, logger.OutputConfig{
		Output: cfg.Logging.Output,
		File: logger.FileConfig{
			Path:       cfg.Logging.File.Path,
			MaxSize:    cfg.Logging.File.MaxSizeMB * 1024 * 1024,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAgeDays,
			Compress:   cfg.Logging.File.Compress,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting mantix",
		"version", Version,
		"commit", Commit,
	)

	// Initialize PostgreSQL
	log.Info("Connecting to PostgreSQL...")
	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()
	log.Info("PostgreSQL connected")

	// Run migrations
	log.Info("Running database migrations...")
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Migrations completed")

	// Initialize Redis. The grid cache degrades to direct projection when
	// Redis is unavailable, so a missing URL is not fatal.
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		log.Info("Connecting to Redis...")
		rdb, err = redis.New(ctx, cfg.Redis.URL, redis.Options{
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("Redis unavailable, grid caching disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
			log.Info("Redis connected")
		}
	} else {
		log.Info("Redis not configured, grid caching disabled")
	}

	app := &Application{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  rdb,
	}

	// Start components
	if err := app.startComponents(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	log.Info("mantix started successfully",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", "error", err)
		return err
	}

	log.Info("mantix stopped gracefully")
	return nil
}

// startComponents builds services and starts the scheduler and HTTP server.
func (app *Application) startComponents(ctx context.Context) error {
	ic := &initContext{}

	if err := app.initServices(ic); err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	if err := app.initScheduler(ctx, ic); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := app.initServer(ic); err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	// Regenerate reports whose inspection data changed while the service
	// was down. Failures are logged, never fatal.
	app.regenerateStaleReports(ctx, ic)

	// Start HTTP server
	errChan := app.Server.StartAsync()
	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	default:
	}

	return nil
}

// shutdown stops components in reverse dependency order.
func (app *Application) shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down components...")

	// Stop scheduler first so no regeneration starts mid-shutdown
	if app.schedulerService != nil {
		if err := app.schedulerService.Stop(); err != nil {
			app.Logger.Error("Error stopping scheduler", "error", err)
		} else {
			app.Logger.Info("Scheduler stopped")
		}
	}

	// Stop API server
	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			app.Logger.Error("Error stopping API server", "error", err)
			return err
		}
	}

	return nil
}
