// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package app

import (
	assetsvc "github.com/ferrovia/mantix/internal/services/asset"
	gridsvc "github.com/ferrovia/mantix/internal/services/grid"
	inspectionsvc "github.com/ferrovia/mantix/internal/services/inspection"
	maintenancesvc "github.com/ferrovia/mantix/internal/services/maintenance"
	reportsvc "github.com/ferrovia/mantix/internal/services/report"
	staffsvc "github.com/ferrovia/mantix/internal/services/staff"
)

// initContext carries shared state between initialization phases in
// startComponents. Each init function populates fields that subsequent
// phases depend on.
type initContext struct {
	// Services (populated by initServices)
	assetService       *assetsvc.Service
	staffService       *staffsvc.Service
	maintenanceService *maintenancesvc.Service
	inspectionService  *inspectionsvc.Service
	gridService        *gridsvc.Service
	reportService      *reportsvc.Service
}
