// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package redis

import (
	"context"
	"testing"
)

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestClient_GridKey(t *testing.T) {
	client := newTestClient(t)

	key := client.GridKey("0d9f6a3e-7f5a-4a44-9a57-1f2d3c4b5a69", 2026)
	expected := "mantix:grid:0d9f6a3e-7f5a-4a44-9a57-1f2d3c4b5a69:2026"
	if key != expected {
		t.Fatalf("expected %q, got %q", expected, key)
	}
}
