// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"strings"
	"time"

	"github.com/ferrovia/mantix/internal/pkg/utils"
)

// State is the display status of one due-date cell.
type State string

const (
	StateUpcoming  State = "upcoming"
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFault     State = "fault"
)

// Task identifies one inspection checklist line item.
type Task struct {
	ID   string
	Text string // display text, also the location-match key

	// LinkedAssetIDs holds the asset IDs from explicit link records, when
	// any exist.
	LinkedAssetIDs []string
}

// Asset is the minimal asset view the matchers need.
type Asset struct {
	ID       string
	Location string // free-text location description
}

// ============================================================================
// Asset matching
// ============================================================================

// AssetMatcher selects the assets a task's inspections apply to.
type AssetMatcher func(task Task, assets []Asset) []Asset

// MatchByExplicitLink returns the assets referenced by the task's link
// records. This is the authoritative strategy.
func MatchByExplicitLink(task Task, assets []Asset) []Asset {
	if len(task.LinkedAssetIDs) == 0 {
		return nil
	}
	linked := make(map[string]bool, len(task.LinkedAssetIDs))
	for _, id := range task.LinkedAssetIDs {
		linked[id] = true
	}
	var out []Asset
	for _, a := range assets {
		if linked[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// MatchByLocationText returns assets whose location description equals the
// task's display text, trimmed and case-sensitive. A heuristic fallback
// for tasks without link records: zero or several assets may match.
func MatchByLocationText(task Task, assets []Asset) []Asset {
	want := strings.TrimSpace(task.Text)
	if want == "" {
		return nil
	}
	var out []Asset
	for _, a := range assets {
		if strings.TrimSpace(a.Location) == want {
			out = append(out, a)
		}
	}
	return out
}

// DefaultMatchers tries the authoritative link strategy first and falls
// back to the location-text heuristic.
var DefaultMatchers = []AssetMatcher{MatchByExplicitLink, MatchByLocationText}

// AssetsForTask applies matchers in order and returns the first non-empty
// result. With no matchers given, DefaultMatchers apply.
func AssetsForTask(task Task, assets []Asset, matchers ...AssetMatcher) []Asset {
	if len(matchers) == 0 {
		matchers = DefaultMatchers
	}
	for _, match := range matchers {
		if found := match(task, assets); len(found) > 0 {
			return found
		}
	}
	return nil
}

// ============================================================================
// Resolver
// ============================================================================

// CellResult is the outcome of resolving one (due date, task) cell.
type CellResult struct {
	State    State
	HasFault bool

	// Started distinguishes partial completion from nothing recorded.
	// Both collapse to StatePending in State; callers that care can read
	// this flag.
	Started bool
}

// Resolver classifies due-date cells against an inspection index. Now is
// injectable for deterministic tests; nil means the wall clock.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a Resolver on the wall clock.
func NewResolver() *Resolver {
	return &Resolver{Now: utils.Now}
}

// Resolve computes the display state for one due date. Precedence, first
// match wins:
//
//  1. any asset's record reports a fault condition → fault
//  2. every asset has a complete record → completed
//  3. at least one complete record exists → pending (partial)
//  4. the date is strictly in the future → upcoming
//  5. otherwise → pending
//
// An empty asset set can never be completed: rules 1-3 need records, so
// only 4-5 apply.
func (r *Resolver) Resolve(date time.Time, task Task, ix *Index, assetsForTask []Asset) CellResult {
	dateKey := date.Format(utils.DateFormat)

	var anyFault, anyComplete bool
	allComplete := len(assetsForTask) > 0
	for _, a := range assetsForTask {
		rec, ok := ix.Lookup(dateKey, a.ID)
		if !ok {
			allComplete = false
			continue
		}
		if rec.IsFault() {
			anyFault = true
		}
		if rec.IsComplete() {
			anyComplete = true
		} else {
			allComplete = false
		}
	}

	switch {
	case anyFault:
		return CellResult{State: StateFault, HasFault: true, Started: anyComplete}
	case allComplete:
		return CellResult{State: StateCompleted, Started: true}
	case anyComplete:
		return CellResult{State: StatePending, Started: true}
	case r.isFuture(date):
		return CellResult{State: StateUpcoming}
	default:
		return CellResult{State: StatePending}
	}
}

// isFuture compares calendar days, not instants: a due date later today is
// not upcoming.
func (r *Resolver) isFuture(date time.Time) bool {
	now := r.Now
	if now == nil {
		now = utils.Now
	}
	return utils.StartOfDay(date).After(utils.StartOfDay(now()))
}
