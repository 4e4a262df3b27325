// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package app

import (
	"github.com/ferrovia/mantix/internal/repository/postgres"
	"github.com/ferrovia/mantix/internal/repository/redis"
	assetsvc "github.com/ferrovia/mantix/internal/services/asset"
	gridsvc "github.com/ferrovia/mantix/internal/services/grid"
	inspectionsvc "github.com/ferrovia/mantix/internal/services/inspection"
	maintenancesvc "github.com/ferrovia/mantix/internal/services/maintenance"
	reportsvc "github.com/ferrovia/mantix/internal/services/report"
	staffsvc "github.com/ferrovia/mantix/internal/services/staff"
)

// initServices builds repositories and business logic services.
func (app *Application) initServices(ic *initContext) error {
	// Repositories
	assetRepo := postgres.NewAssetRepository(app.DB)
	staffRepo := postgres.NewStaffRepository(app.DB)
	maintenanceRepo := postgres.NewMaintenanceRepository(app.DB)
	inspectionRepo := postgres.NewInspectionRepository(app.DB)
	reportRepo := postgres.NewReportRepository(app.DB)

	// Grid cache is optional. Services take a nil cache and fall back to
	// direct projection.
	var gridCache *redis.GridCache
	if app.Redis != nil {
		gridCache = redis.NewGridCache(app.Redis)
	}

	ic.assetService = assetsvc.NewService(assetRepo, app.Logger)
	ic.staffService = staffsvc.NewService(staffRepo, app.Logger)
	ic.maintenanceService = maintenancesvc.NewService(maintenanceRepo, gridCache, app.Logger)
	ic.inspectionService = inspectionsvc.NewService(inspectionRepo, gridCache, app.Logger)
	ic.gridService = gridsvc.NewService(maintenanceRepo, assetRepo, inspectionRepo, gridCache, app.Logger)
	ic.reportService = reportsvc.NewService(reportRepo, ic.gridService, app.Logger)

	app.Logger.Info("Services initialized",
		"grid_cache", gridCache != nil,
	)

	return nil
}
