// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package handlers_test

import (
	"net/http"
	"testing"
)

// TestRouter_PublicRoutes verifies the bare health endpoints outside the
// API prefix.
func TestRouter_PublicRoutes(t *testing.T) {
	ts := setupTestSuite(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health endpoint", http.MethodGet, "/health", http.StatusOK},
		{"liveness endpoint", http.MethodGet, "/healthz", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, ts.router, tt.method, tt.path, "")
			assertStatus(t, w, tt.wantStatus)
		})
	}
}

// TestRouter_SystemRoutes verifies the mounted system subtree.
func TestRouter_SystemRoutes(t *testing.T) {
	ts := setupTestSuite(t)

	tests := []struct {
		name string
		path string
	}{
		{"system version", "/api/v1/system/version"},
		{"system info", "/api/v1/system/info"},
		{"system health", "/api/v1/system/health"},
		{"system metrics", "/api/v1/system/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, ts.router, http.MethodGet, tt.path, "")
			assertStatus(t, w, http.StatusOK)
		})
	}
}

// TestRouter_UnmountedHandlers verifies that nil handlers leave their
// subtrees unrouted.
func TestRouter_UnmountedHandlers(t *testing.T) {
	ts := setupTestSuite(t)

	paths := []string{
		"/api/v1/assets",
		"/api/v1/staff",
		"/api/v1/maintenance",
		"/api/v1/inspections",
		"/api/v1/reports",
	}

	for _, path := range paths {
		w := doRequest(t, ts.router, http.MethodGet, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unmounted %s, got %d", path, w.Code)
		}
	}
}

// TestRouter_RequestIDHeader verifies every response carries a request ID.
func TestRouter_RequestIDHeader(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on response")
	}
}

// TestRouter_CORS verifies that CORS processing doesn't break responses.
func TestRouter_CORS(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/health", "")
	assertStatus(t, w, http.StatusOK)
}

// TestRouter_NotFound verifies that unknown routes return 404.
func TestRouter_NotFound(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodGet, "/api/v1/nonexistent", "")
	assertStatus(t, w, http.StatusNotFound)
}

// TestRouter_MethodNotAllowed verifies that wrong methods return 405.
func TestRouter_MethodNotAllowed(t *testing.T) {
	ts := setupTestSuite(t)

	w := doRequest(t, ts.router, http.MethodDelete, "/health", "")
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("expected 405 or 404 for DELETE on /health, got %d", w.Code)
	}
}
