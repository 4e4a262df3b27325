// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "key1", "value1", 5*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := client.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "value1" {
		t.Fatalf("expected value1, got %q", val)
	}
}

func TestCache_Get_Miss(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_Delete(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "key1", "value1", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := client.Set(ctx, "key2", "value2", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := client.Delete(ctx, "key1", "key2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := client.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestCache_Delete_NoKeys(t *testing.T) {
	client := newTestClient(t)

	// Zero keys is a no-op, not an error
	if err := client.Delete(context.Background()); err != nil {
		t.Fatalf("Delete with no keys: %v", err)
	}
}

func TestCache_Keys(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, k := range []string{"mantix:grid:a:2025", "mantix:grid:a:2026", "other:key"} {
		if err := client.Set(ctx, k, "x", 0); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	keys, err := client.Keys(ctx, "mantix:grid:a:*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	want := []string{"mantix:grid:a:2025", "mantix:grid:a:2026"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

type cachePayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_JSONRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	in := cachePayload{Name: "compressor", Count: 12}
	if err := client.SetJSON(ctx, "payload", in, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out cachePayload
	if err := client.GetJSON(ctx, "payload", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestCache_GetJSON_Miss(t *testing.T) {
	client := newTestClient(t)

	var out cachePayload
	err := client.GetJSON(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_SetJSON_UnmarshalableValue(t *testing.T) {
	client := newTestClient(t)

	err := client.SetJSON(context.Background(), "bad", func() {}, 0)
	if err == nil {
		t.Fatal("expected marshal error for func value")
	}
}

func TestCache_GetOrSetJSON_ComputesOnMiss(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return cachePayload{Name: "pump", Count: 3}, nil
	}

	var out cachePayload
	if err := client.GetOrSetJSON(ctx, "k", &out, time.Minute, fn); err != nil {
		t.Fatalf("GetOrSetJSON: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call, got %d", calls)
	}
	if out.Name != "pump" || out.Count != 3 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestCache_GetOrSetJSON_ServesCachedValue(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return cachePayload{Name: "pump", Count: calls}, nil
	}

	var first cachePayload
	if err := client.GetOrSetJSON(ctx, "k", &first, time.Minute, fn); err != nil {
		t.Fatalf("GetOrSetJSON: %v", err)
	}

	var second cachePayload
	if err := client.GetOrSetJSON(ctx, "k", &second, time.Minute, fn); err != nil {
		t.Fatalf("GetOrSetJSON (cached): %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call, got %d", calls)
	}
	if second.Count != 1 {
		t.Fatalf("expected cached payload, got %+v", second)
	}
}

func TestCache_GetOrSetJSON_ComputeError(t *testing.T) {
	client := newTestClient(t)

	wantErr := fmt.Errorf("projection failed")
	fn := func() (interface{}, error) { return nil, wantErr }

	var out cachePayload
	err := client.GetOrSetJSON(context.Background(), "k", &out, time.Minute, fn)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected compute error, got %v", err)
	}

	// Nothing cached on failure
	if _, err := client.Get(context.Background(), "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected no cached value after compute error, got %v", err)
	}
}
