// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package checklist

import (
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/ferrovia/mantix/internal/pkg/errors"
)

// Cell is one slot of the projected year grid. Empty slots have a nil Date
// and an empty State.
type Cell struct {
	Date  *time.Time `json:"date,omitempty"`
	State State      `json:"state,omitempty"`
}

// Grid is the 12 months × 4 period slots projection consumed identically
// by the checklist view and the report exporter. Months are indexed 0-11
// in calendar order, slots 0-3.
type Grid [12][4]Cell

// Projector drives date extraction, week bucketing, and cell resolution
// across a full year for one task. A Projector is safe for concurrent use
// across tasks: it holds no per-call state and its inputs are snapshots.
type Projector struct {
	Resolver *Resolver
	Matchers []AssetMatcher
}

// NewProjector returns a Projector with the default matcher chain and a
// wall-clock resolver.
func NewProjector() *Projector {
	return &Projector{
		Resolver: NewResolver(),
		Matchers: DefaultMatchers,
	}
}

// Project builds the year grid for one task. The inspection index and
// asset list are read-only snapshots for the duration of the call.
//
// A frequency outside the enum aborts the projection with an error naming
// the task and the month being processed; that is the one schedule defect
// surfaced rather than absorbed, since it means the task's configuration
// is corrupted. When two extracted dates land in the same (month, slot),
// which only malformed schedule data can produce, the first is kept and
// the rest dropped.
func (p *Projector) Project(task Task, spec ScheduleSpec, year int, ix *Index, assets []Asset) (Grid, error) {
	var grid Grid

	resolver := p.Resolver
	if resolver == nil {
		resolver = NewResolver()
	}
	matched := AssetsForTask(task, assets, p.Matchers...)

	for i, monthName := range MonthNames {
		dates, err := ExtractDatesForMonth(monthName, year, spec)
		if err != nil {
			return Grid{}, apperrors.WrapWithStatus(err, apperrors.CodeBadRequest,
				fmt.Sprintf("task %q, month %s: bad schedule configuration", task.Text, monthName),
				http.StatusBadRequest).
				WithDetail("task_id", task.ID).
				WithDetail("month", monthName)
		}
		for _, date := range dates {
			slot := Bucket(date.Day()) - 1
			if grid[i][slot].Date != nil {
				continue
			}
			result := resolver.Resolve(date, task, ix, matched)
			d := date
			grid[i][slot] = Cell{Date: &d, State: result.State}
		}
	}
	return grid, nil
}
