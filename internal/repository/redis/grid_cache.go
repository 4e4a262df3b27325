// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package redis

import (
	"context"
	"time"
)

const (
	// Cache key prefix for projected checklist grids
	gridPrefix = "mantix:grid:"

	// Grids only change when schedules or records change, so a
	// moderate TTL keeps reads cheap without long staleness windows.
	gridTTL = 5 * time.Minute
)

// GridCache provides Redis-backed caching for projected checklist grids.
type GridCache struct {
	client *Client
}

// NewGridCache creates a new grid cache.
func NewGridCache(client *Client) *GridCache {
	return &GridCache{client: client}
}

// GetOrSetGrid retrieves a cached grid for a maintenance item and year, or
// computes it using the provided function and caches the result.
func (c *GridCache) GetOrSetGrid(ctx context.Context, maintenanceID string, year int, dest interface{}, fn func() (interface{}, error)) error {
	return c.client.GetOrSetJSON(ctx, c.client.GridKey(maintenanceID, year), dest, gridTTL, fn)
}

// InvalidateItem removes all cached grids for a maintenance item, across
// every year. Called when schedules, links or records change.
func (c *GridCache) InvalidateItem(ctx context.Context, maintenanceID string) error {
	keys, err := c.client.Keys(ctx, gridPrefix+maintenanceID+":*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Delete(ctx, keys...)
}
