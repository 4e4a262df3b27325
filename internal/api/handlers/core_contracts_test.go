// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ferrovia/mantix/internal/api"
	"github.com/ferrovia/mantix/internal/api/handlers"
	"github.com/ferrovia/mantix/internal/api/middleware"
)

// setupFullRouter mounts every domain handler. The services behind them
// are nil, so only routing and input validation paths may be exercised.
func setupFullRouter(t *testing.T) chi.Router {
	t.Helper()

	h := &api.Handlers{
		System:      handlers.NewSystemHandler("test", "test", "2026-01-01", nil),
		Asset:       handlers.NewAssetHandler(nil, nil),
		Staff:       handlers.NewStaffHandler(nil, nil),
		Maintenance: handlers.NewMaintenanceHandler(nil, nil),
		Inspection:  handlers.NewInspectionHandler(nil, nil),
		Checklist:   handlers.NewChecklistHandler(nil, nil),
		Report:      handlers.NewReportHandler(nil, nil),
	}

	config := api.RouterConfig{
		CORSConfig:         middleware.DefaultCORSConfig(),
		RateLimitPerMinute: 1000,
		RequestTimeout:     5 * time.Second,
	}

	return api.NewRouter(config, h)
}

type coreAPIContract struct {
	module string

	// A GET with a malformed UUID path parameter. Must be rejected
	// before any service call.
	badIDMethod string
	badIDPath   string

	// A mutation with a malformed JSON body. Must be rejected during
	// parsing.
	badBodyMethod string
	badBodyPath   string
}

var coreAPIContracts = []coreAPIContract{
	{
		module:        "asset",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/assets/not-a-uuid",
		badBodyMethod: http.MethodPost,
		badBodyPath:   "/api/v1/assets",
	},
	{
		module:        "staff",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/staff/not-a-uuid",
		badBodyMethod: http.MethodPost,
		badBodyPath:   "/api/v1/staff",
	},
	{
		module:        "maintenance",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/maintenance/not-a-uuid",
		badBodyMethod: http.MethodPost,
		badBodyPath:   "/api/v1/maintenance",
	},
	{
		module:        "inspection",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/inspections/not-a-uuid",
		badBodyMethod: http.MethodPost,
		badBodyPath:   "/api/v1/inspections",
	},
	{
		module:        "checklist",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/checklist/not-a-uuid/2026",
		badBodyMethod: "",
		badBodyPath:   "",
	},
	{
		module:        "report",
		badIDMethod:   http.MethodGet,
		badIDPath:     "/api/v1/reports/not-a-uuid",
		badBodyMethod: http.MethodPost,
		badBodyPath:   "/api/v1/reports/generate",
	},
}

func TestCoreAPIContractMatrix_IsComplete(t *testing.T) {
	if len(coreAPIContracts) != 6 {
		t.Fatalf("expected 6 core module contracts, got %d", len(coreAPIContracts))
	}

	for _, c := range coreAPIContracts {
		if c.module == "" || c.badIDMethod == "" || c.badIDPath == "" {
			t.Fatalf("incomplete contract entry for module %q", c.module)
		}
	}
}

func TestCoreAPIContractMatrix_InvalidIDConsistency(t *testing.T) {
	router := setupFullRouter(t)

	for _, c := range coreAPIContracts {
		t.Run(c.module+"_invalid_id_returns_consistent_payload", func(t *testing.T) {
			w := doRequest(t, router, c.badIDMethod, c.badIDPath, "")
			assertStatus(t, w, http.StatusBadRequest)
			assertErrorCode(t, w, "INVALID_INPUT")
		})
	}
}

func TestCoreAPIContractMatrix_MalformedBodyConsistency(t *testing.T) {
	router := setupFullRouter(t)

	for _, c := range coreAPIContracts {
		if c.badBodyMethod == "" {
			continue
		}
		t.Run(c.module+"_malformed_body_returns_400", func(t *testing.T) {
			w := doRequest(t, router, c.badBodyMethod, c.badBodyPath, "{not json")
			assertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCoreAPIContractMatrix_AllSubtreesRouted(t *testing.T) {
	router := setupFullRouter(t)

	// A HEAD probe against each subtree root must not fall through to
	// the router's 404 handler.
	paths := []string{
		"/api/v1/assets",
		"/api/v1/staff",
		"/api/v1/maintenance",
		"/api/v1/inspections",
		"/api/v1/reports",
	}

	for _, path := range paths {
		w := doRequest(t, router, http.MethodOptions, path, "")
		if w.Code == http.StatusNotFound {
			t.Errorf("expected %s to be routed, got 404", path)
		}
	}
}
