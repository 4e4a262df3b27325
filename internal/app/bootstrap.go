// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package app

import (
	"context"
	"time"
)

// regenerateStaleReports runs a one-shot sweep at startup so that reports
// marked stale while the service was down are rebuilt without waiting for
// the first scheduler tick. Failures are logged and never block startup.
func (app *Application) regenerateStaleReports(ctx context.Context, ic *initContext) {
	if ic.reportService == nil {
		return
	}

	year := time.Now().UTC().Year()
	count, err := ic.reportService.RegenerateStale(ctx, year)
	if err != nil {
		app.Logger.Warn("Startup report regeneration failed", "year", year, "error", err)
		return
	}

	if count > 0 {
		app.Logger.Info("Regenerated stale reports at startup", "year", year, "count", count)
	}
}
