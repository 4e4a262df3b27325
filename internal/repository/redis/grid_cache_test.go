// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// newTestClient starts an in-memory miniredis server and returns a Client
// connected to it. The server is closed when the test finishes.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &Client{rdb: rdb}
}

type testGrid struct {
	TaskID string `json:"task_id"`
	Cells  int    `json:"cells"`
}

func TestGridCache_GetOrSetGrid(t *testing.T) {
	client := newTestClient(t)
	cache := NewGridCache(client)
	ctx := context.Background()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return testGrid{TaskID: "t1", Cells: 48}, nil
	}

	var result testGrid
	if err := cache.GetOrSetGrid(ctx, "item-1", 2026, &result, fn); err != nil {
		t.Fatalf("GetOrSetGrid: %v", err)
	}
	if result.TaskID != "t1" || result.Cells != 48 {
		t.Fatalf("unexpected grid: %+v", result)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call, got %d", calls)
	}

	// Second read hits the cache
	var cached testGrid
	if err := cache.GetOrSetGrid(ctx, "item-1", 2026, &cached, fn); err != nil {
		t.Fatalf("GetOrSetGrid (cached): %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call after cache hit, got %d", calls)
	}
}

func TestGridCache_InvalidateItem(t *testing.T) {
	client := newTestClient(t)
	cache := NewGridCache(client)
	ctx := context.Background()

	fn := func() (interface{}, error) { return testGrid{TaskID: "t1"}, nil }

	var g testGrid
	for _, year := range []int{2025, 2026} {
		if err := cache.GetOrSetGrid(ctx, "item-1", year, &g, fn); err != nil {
			t.Fatalf("GetOrSetGrid %d: %v", year, err)
		}
	}
	if err := cache.GetOrSetGrid(ctx, "item-2", 2026, &g, fn); err != nil {
		t.Fatalf("GetOrSetGrid item-2: %v", err)
	}

	if err := cache.InvalidateItem(ctx, "item-1"); err != nil {
		t.Fatalf("InvalidateItem: %v", err)
	}

	// item-1 keys are gone across years
	for _, year := range []int{2025, 2026} {
		if _, err := client.Get(ctx, client.GridKey("item-1", year)); !errors.Is(err, ErrCacheMiss) {
			t.Fatalf("expected item-1 grid for %d to be invalidated, got %v", year, err)
		}
	}

	// item-2 is untouched
	if _, err := client.Get(ctx, client.GridKey("item-2", 2026)); err != nil {
		t.Fatalf("expected item-2 grid to survive item-1 invalidation: %v", err)
	}
}

func TestGridCache_InvalidateItem_NoKeys(t *testing.T) {
	client := newTestClient(t)
	cache := NewGridCache(client)

	// Invalidating an item with nothing cached is a no-op
	if err := cache.InvalidateItem(context.Background(), "item-absent"); err != nil {
		t.Fatalf("InvalidateItem: %v", err)
	}
}
