// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package app

import (
	"os"

	"github.com/ferrovia/mantix/internal/api"
	"github.com/ferrovia/mantix/internal/api/handlers"
	apimiddleware "github.com/ferrovia/mantix/internal/api/middleware"
)

// initServer builds the API server, registers handlers and health checks.
// Requires initServices to have populated ic.
func (app *Application) initServer(ic *initContext) error {
	routerCfg := api.DefaultRouterConfig()
	if app.Config.Server.RateLimitRPM > 0 {
		routerCfg.RateLimitPerMinute = app.Config.Server.RateLimitRPM
	}
	if app.Config.Server.RequestTimeout > 0 {
		routerCfg.RequestTimeout = app.Config.Server.RequestTimeout
	}
	// Set logger so Recovery middleware actually logs panics
	routerCfg.Logger = app.Logger

	// Override CORS if MANTIX_CORS_ORIGINS is set (comma-separated origins).
	if corsOrigins := os.Getenv("MANTIX_CORS_ORIGINS"); corsOrigins != "" {
		routerCfg.CORSConfig = apimiddleware.CORSFromEnv(corsOrigins, false)
		app.Logger.Info("CORS configured from MANTIX_CORS_ORIGINS", "origins", corsOrigins)
	}

	serverCfg := api.ServerConfig{
		Host:            app.Config.Server.Host,
		Port:            app.Config.Server.Port,
		ReadTimeout:     app.Config.Server.ReadTimeout,
		WriteTimeout:    app.Config.Server.WriteTimeout,
		IdleTimeout:     app.Config.Server.IdleTimeout,
		ShutdownTimeout: app.Config.Server.ShutdownTimeout,
		RouterConfig:    routerCfg,
		Version:         Version,
		Commit:          Commit,
		BuildTime:       BuildTime,
		Logger:          app.Logger,
	}

	if app.Config.Server.TLS.Enabled {
		serverCfg.TLSCert = app.Config.Server.TLS.CertFile
		serverCfg.TLSKey = app.Config.Server.TLS.KeyFile
		app.Logger.Info("HTTPS enabled", "cert", serverCfg.TLSCert)
	}

	app.Server = api.NewServer(serverCfg)

	// Domain handlers
	h := app.Server.Handlers()
	h.Asset = handlers.NewAssetHandler(ic.assetService, app.Logger)
	h.Staff = handlers.NewStaffHandler(ic.staffService, app.Logger)
	h.Maintenance = handlers.NewMaintenanceHandler(ic.maintenanceService, app.Logger)
	h.Inspection = handlers.NewInspectionHandler(ic.inspectionService, app.Logger)
	h.Checklist = handlers.NewChecklistHandler(ic.gridService, app.Logger)
	h.Report = handlers.NewReportHandler(ic.reportService, app.Logger)

	// Health checks
	app.Server.RegisterDatabaseHealth(app.DB.Ping)
	if app.Redis != nil {
		app.Server.RegisterRedisHealth(app.Redis.HealthCheck)
	}

	app.Server.Setup()

	app.Logger.Info("API server initialized",
		"handlers", countActiveHandlers(h),
	)

	return nil
}
