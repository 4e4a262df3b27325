// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ferrovia/mantix/internal/api/handlers"
	"github.com/ferrovia/mantix/internal/api/middleware"
)

// RouterConfig contains configuration for setting up routes.
type RouterConfig struct {
	// CORSConfig is the CORS configuration.
	CORSConfig middleware.CORSConfig

	// RateLimitPerMinute is the rate limit for API requests.
	RateLimitPerMinute int

	// RequestTimeout is the timeout for HTTP requests.
	RequestTimeout time.Duration

	// Logger for request logging.
	Logger middleware.RequestLogger

	// EnableDebugLogging enables verbose request logging.
	EnableDebugLogging bool
}

// DefaultRouterConfig returns a default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSConfig:         middleware.DefaultCORSConfig(),
		RateLimitPerMinute: 100,
		RequestTimeout:     30 * time.Second,
		EnableDebugLogging: false,
	}
}

// Handlers contains all API handlers.
// All fields are optional - if nil, the corresponding routes won't be mounted.
type Handlers struct {
	System      *handlers.SystemHandler
	Asset       *handlers.AssetHandler
	Staff       *handlers.StaffHandler
	Maintenance *handlers.MaintenanceHandler
	Inspection  *handlers.InspectionHandler
	Checklist   *handlers.ChecklistHandler
	Report      *handlers.ReportHandler
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(config RouterConfig, h *Handlers) chi.Router {
	r := chi.NewRouter()

	// =========================================================================
	// Global Middleware (applied to all routes)
	// =========================================================================

	// Request ID (must be first)
	r.Use(middleware.RequestID)

	// Real IP extraction from proxy headers
	r.Use(middleware.RealIP)

	// Request logging
	if config.Logger != nil {
		if config.EnableDebugLogging {
			r.Use(middleware.DebugLogging(config.Logger))
		} else {
			r.Use(middleware.SimpleLogging(config.Logger))
		}
	}

	// Panic recovery
	r.Use(middleware.Recovery(middleware.RecoveryConfig{
		Logger:     config.Logger,
		PrintStack: true,
	}))

	// CORS
	r.Use(middleware.CORS(config.CORSConfig))

	// =========================================================================
	// Health Check Routes
	// =========================================================================

	if h.System != nil {
		r.Get("/health", h.System.Health)
		r.Get("/healthz", h.System.Liveness)
		r.Get("/ready", h.System.Readiness)
	}

	// =========================================================================
	// API Routes
	// =========================================================================

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.RequestTimeout))

		rateLimit := config.RateLimitPerMinute
		if rateLimit <= 0 {
			rateLimit = 100
		}
		r.Use(middleware.RateLimitByIP(rateLimit, time.Minute))

		if h.System != nil {
			r.Mount("/system", h.System.Routes())
		}
		if h.Asset != nil {
			r.Mount("/assets", h.Asset.Routes())
		}
		if h.Staff != nil {
			r.Mount("/staff", h.Staff.Routes())
		}
		if h.Maintenance != nil {
			r.Mount("/maintenance", h.Maintenance.Routes())
		}
		if h.Inspection != nil {
			r.Mount("/inspections", h.Inspection.Routes())
		}
		if h.Checklist != nil {
			r.Mount("/checklist", h.Checklist.Routes())
		}
		if h.Report != nil {
			r.Mount("/reports", h.Report.Routes())
		}
	})

	return r
}
