// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/ferrovia/mantix/internal/pkg/errors"
)

func testProjector(today string) *Projector {
	return &Projector{
		Resolver: fixedResolver(today),
		Matchers: DefaultMatchers,
	}
}

// ============================================================================
// Grid layout
// ============================================================================

func TestProject_WeeklyFullYear(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"January": {"Week1": "2024-01-06", "Week3": "2024-01-20"},
			"June":    {"Week2": "2024-06-10"},
		},
	}
	task := Task{ID: "t1", Text: "Server Room AC"}

	grid, err := testProjector("2025-01-10").Project(task, spec, 2025, BuildIndex(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// January: day 6 → slot 1, day 20 → slot 3.
	if grid[0][0].Date == nil || grid[0][0].Date.Day() != 6 {
		t.Errorf("Jan slot 1 = %+v, want day 6", grid[0][0])
	}
	if grid[0][2].Date == nil || grid[0][2].Date.Day() != 20 {
		t.Errorf("Jan slot 3 = %+v, want day 20", grid[0][2])
	}
	if grid[0][1].Date != nil || grid[0][3].Date != nil {
		t.Error("Jan slots 2 and 4 should be empty")
	}

	// June: day 10 → slot 2, future relative to Jan 10.
	if grid[5][1].Date == nil || grid[5][1].State != StateUpcoming {
		t.Errorf("Jun slot 2 = %+v, want upcoming", grid[5][1])
	}

	// Months without entries are fully empty.
	for slot := 0; slot < 4; slot++ {
		if grid[7][slot].Date != nil {
			t.Errorf("Aug slot %d should be empty", slot+1)
		}
	}
}

func TestProject_StatesAcrossTime(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly: map[string]string{
			"January": "2024-01-10",
			"March":   "2024-03-10",
			"July":    "2024-07-10",
		},
	}
	task := Task{ID: "t1", Text: "Generator", LinkedAssetIDs: []string{"a1"}}
	assets := []Asset{{ID: "a1", Location: "Generator"}}
	ix := BuildIndex([]Record{
		{ID: "r1", AssetID: "a1", Date: "2025-01-10", Status: StatusComplete, Condition: ConditionNormal},
	})

	grid, err := testProjector("2025-03-20").Project(task, spec, 2025, ix, assets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid[0][1].State != StateCompleted {
		t.Errorf("Jan = %s, want completed", grid[0][1].State)
	}
	if grid[2][1].State != StatePending {
		t.Errorf("Mar = %s, want pending (past, no record)", grid[2][1].State)
	}
	if grid[6][1].State != StateUpcoming {
		t.Errorf("Jul = %s, want upcoming", grid[6][1].State)
	}
}

func TestProject_SlotCollisionFirstWins(t *testing.T) {
	// Two week entries landing in the same period slot can only come from
	// malformed schedule data; the first extracted date is kept.
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"March": {
				"Week1": "2024-03-05",
				"Week2": "2024-03-02", // also slot 1
			},
		},
	}
	task := Task{ID: "t1", Text: "UPS"}

	grid, err := testProjector("2025-06-01").Project(task, spec, 2025, BuildIndex(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid[2][0].Date == nil {
		t.Fatal("Mar slot 1 should be populated")
	}
	if got := grid[2][0].Date.Day(); got != 2 {
		t.Errorf("Mar slot 1 day = %d, want 2 (first in ascending order)", got)
	}
	if grid[2][1].Date != nil {
		t.Error("colliding date should be discarded, not spilled into slot 2")
	}
}

func TestProject_QuarterlyGrid(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyQuarterly,
		Quarterly: map[string]string{
			"Q1": "2025-02-16",
			"Q3": "2025-09-28",
		},
	}
	task := Task{ID: "t1", Text: "Chiller"}

	grid, err := testProjector("2025-06-01").Project(task, spec, 2025, BuildIndex(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Feb 16 → month 2, slot 3. Sep 28 → month 9, slot 4.
	if grid[1][2].Date == nil || grid[1][2].Date.Day() != 16 {
		t.Errorf("Feb slot 3 = %+v, want day 16", grid[1][2])
	}
	if grid[8][3].Date == nil || grid[8][3].Date.Day() != 28 {
		t.Errorf("Sep slot 4 = %+v, want day 28", grid[8][3])
	}

	var populated int
	for m := range grid {
		for s := range grid[m] {
			if grid[m][s].Date != nil {
				populated++
			}
		}
	}
	if populated != 2 {
		t.Errorf("populated cells = %d, want 2", populated)
	}
}

// ============================================================================
// Invalid frequency surfacing
// ============================================================================

func TestProject_InvalidFrequencyIdentifiesTaskAndMonth(t *testing.T) {
	spec := ScheduleSpec{Frequency: "biweekly"}
	task := Task{ID: "t42", Text: "Fire Extinguishers"}

	_, err := testProjector("2025-06-01").Project(task, spec, 2025, BuildIndex(nil), nil)
	if err == nil {
		t.Fatal("expected configuration error for invalid frequency")
	}
	if !strings.Contains(err.Error(), "Fire Extinguishers") {
		t.Errorf("error should name the task, got: %v", err)
	}
	if !strings.Contains(err.Error(), "January") {
		t.Errorf("error should name the month, got: %v", err)
	}

	ae, ok := apperrors.GetAppError(err)
	if !ok {
		t.Fatal("error should carry an AppError")
	}
	if ae.Details["task_id"] != "t42" {
		t.Errorf("Details[task_id] = %v, want t42", ae.Details["task_id"])
	}
}

// ============================================================================
// Idempotence and snapshot stability
// ============================================================================

func TestProject_Idempotent(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyWeekly,
		Weekly: map[string]map[string]string{
			"January":  {"Week1": "2024-01-03", "Week2": "2024-01-11"},
			"February": {"Week4": "2024-02-27"},
			"November": {"Week3": "2024-11-18"},
		},
	}
	task := Task{ID: "t1", Text: "Rack Inspection", LinkedAssetIDs: []string{"a1", "a2"}}
	assets := []Asset{{ID: "a1"}, {ID: "a2"}}
	ix := BuildIndex([]Record{
		{ID: "r1", AssetID: "a1", Date: "2025-01-03", Status: StatusComplete, Condition: ConditionNormal},
		{ID: "r2", AssetID: "a2", Date: "2025-01-03", Status: StatusComplete, Condition: ConditionFault},
	})

	p := testProjector("2025-05-01")
	first, err := p.Project(task, spec, 2025, ix, assets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Project(task, spec, 2025, ix, assets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !gridsEqual(first, second) {
		t.Error("projecting the same inputs twice should yield identical grids")
	}
	if first[0][0].State != StateFault {
		t.Errorf("Jan slot 1 = %s, want fault", first[0][0].State)
	}
}

func gridsEqual(a, b Grid) bool {
	for m := range a {
		for s := range a[m] {
			ca, cb := a[m][s], b[m][s]
			if ca.State != cb.State {
				return false
			}
			if (ca.Date == nil) != (cb.Date == nil) {
				return false
			}
			if ca.Date != nil && !ca.Date.Equal(*cb.Date) {
				return false
			}
		}
	}
	return true
}

// ============================================================================
// Parallel projection safety
// ============================================================================

func TestProject_ConcurrentTasks(t *testing.T) {
	spec := ScheduleSpec{
		Frequency: FrequencyMonthly,
		Monthly:   map[string]string{"January": "2024-01-15", "June": "2024-06-15"},
	}
	ix := BuildIndex([]Record{
		{ID: "r1", AssetID: "a1", Date: "2025-01-15", Status: StatusComplete, Condition: ConditionNormal},
	})
	assets := []Asset{{ID: "a1", Location: "Shared Rack"}}
	p := testProjector("2025-03-01")

	const workers = 8
	results := make(chan Grid, workers)
	for w := 0; w < workers; w++ {
		go func(n int) {
			task := Task{ID: "t", Text: "Shared Rack", LinkedAssetIDs: []string{"a1"}}
			grid, err := p.Project(task, spec, 2025, ix, assets)
			if err != nil {
				t.Errorf("worker %d: %v", n, err)
			}
			results <- grid
		}(w)
	}

	var grids []Grid
	for w := 0; w < workers; w++ {
		grids = append(grids, <-results)
	}
	for i := 1; i < len(grids); i++ {
		if !gridsEqual(grids[0], grids[i]) {
			t.Fatal("concurrent projections diverged")
		}
	}
}

// ============================================================================
// Cell JSON shape
// ============================================================================

func TestCell_JSONShape(t *testing.T) {
	d := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	cell := Cell{Date: &d, State: StateCompleted}

	typ := reflect.TypeOf(cell)
	dateField, _ := typ.FieldByName("Date")
	if tag := dateField.Tag.Get("json"); tag != "date,omitempty" {
		t.Errorf("Date json tag = %q", tag)
	}
	stateField, _ := typ.FieldByName("State")
	if tag := stateField.Tag.Get("json"); tag != "state,omitempty" {
		t.Errorf("State json tag = %q", tag)
	}
}
