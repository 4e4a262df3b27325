// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package scheduler runs periodic background work, currently the
// regeneration of yearly reports whose inspection data changed.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/pkg/utils"
)

// Config holds scheduler configuration
type Config struct {
	// RegenerateSchedule is the cron expression for the stale report sweep
	RegenerateSchedule string

	// RunTimeout is the maximum time a single sweep can run
	RunTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		RegenerateSchedule: "*/15 * * * *",
		RunTimeout:         5 * time.Minute,
	}
}

// ReportRegenerator rebuilds reports that fell behind their inspection data.
type ReportRegenerator interface {
	RegenerateStale(ctx context.Context, year int) (int, error)
}

// Scheduler coordinates periodic background jobs
type Scheduler struct {
	config  *Config
	reports ReportRegenerator
	cron    *cron.Cron
	logger  *logger.Logger

	running bool
	mu      sync.Mutex

	// lifecycleCtx is the context passed to Start(). Runs derive timeouts
	// from it so they are cancelled during scheduler shutdown instead of
	// using orphaned context.Background() instances.
	lifecycleCtx context.Context
}

// New creates a new scheduler
func New(config *Config, reports ReportRegenerator, log *logger.Logger) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	cronInstance := cron.New(
		cron.WithChain(
			cron.Recover(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		config:  config,
		reports: reports,
		cron:    cronInstance,
		logger:  log.Named("scheduler"),
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New(errors.CodeValidationFailed, "scheduler already running")
	}
	s.running = true
	s.lifecycleCtx = ctx
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(s.config.RegenerateSchedule, s.runRegeneration); err != nil {
		return errors.Wrap(err, errors.CodeValidationFailed, "invalid regeneration schedule")
	}

	s.logger.Info("starting scheduler",
		"regenerate_schedule", s.config.RegenerateSchedule,
		"run_timeout", s.config.RunTimeout,
	)

	s.cron.Start()
	return nil
}

// Stop stops the scheduler gracefully, waiting for a running sweep to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("stopping scheduler")

	cronCtx := s.cron.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn("scheduler shutdown timeout")
	}

	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ============================================================================
// Jobs
// ============================================================================

func (s *Scheduler) runRegeneration() {
	s.mu.Lock()
	parent := s.lifecycleCtx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithTimeout(parent, s.config.RunTimeout)
	defer cancel()

	year := utils.Now().Year()
	count, err := s.reports.RegenerateStale(ctx, year)
	if err != nil {
		s.logger.Error("report regeneration sweep failed", "year", year, "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("report regeneration sweep finished", "year", year, "count", count)
	}
}
