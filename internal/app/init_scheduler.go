// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package app

import (
	"context"

	"github.com/ferrovia/mantix/internal/scheduler"
)

// initScheduler starts the background scheduler that periodically
// regenerates stale reports. Requires initServices to have populated ic.
func (app *Application) initScheduler(ctx context.Context, ic *initContext) error {
	if !app.Config.Scheduler.Enabled {
		app.Logger.Info("Scheduler disabled by config")
		return nil
	}

	schedulerConfig := scheduler.DefaultConfig()
	if app.Config.Scheduler.RegenerateSchedule != "" {
		schedulerConfig.RegenerateSchedule = app.Config.Scheduler.RegenerateSchedule
	}
	if app.Config.Scheduler.RunTimeout > 0 {
		schedulerConfig.RunTimeout = app.Config.Scheduler.RunTimeout
	}

	sched := scheduler.New(schedulerConfig, ic.reportService, app.Logger)
	if err := sched.Start(ctx); err != nil {
		app.Logger.Error("Failed to start scheduler", "error", err)
		return err
	}

	app.schedulerService = sched
	app.Logger.Info("Scheduler started",
		"schedule", schedulerConfig.RegenerateSchedule,
	)

	return nil
}
