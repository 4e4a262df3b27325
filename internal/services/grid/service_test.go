// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package grid

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/checklist"
	"github.com/ferrovia/mantix/internal/models"
	apperrors "github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeMaintenance struct {
	item  *models.MaintenanceItem
	tasks []*models.InspectionTask
	links []*models.AssetLink
}

func (f *fakeMaintenance) GetItem(_ context.Context, id uuid.UUID) (*models.MaintenanceItem, error) {
	if f.item == nil || f.item.ID != id {
		return nil, apperrors.NotFound("maintenance item")
	}
	return f.item, nil
}

func (f *fakeMaintenance) ListTasks(_ context.Context, _ uuid.UUID) ([]*models.InspectionTask, error) {
	return f.tasks, nil
}

func (f *fakeMaintenance) ListLinks(_ context.Context, _ uuid.UUID) ([]*models.AssetLink, error) {
	return f.links, nil
}

type fakeAssets struct {
	assets []*models.Asset
}

func (f *fakeAssets) List(_ context.Context, _ models.AssetFilter) ([]*models.Asset, int64, error) {
	return f.assets, int64(len(f.assets)), nil
}

type fakeRecords struct {
	records []*models.InspectionRecord
}

func (f *fakeRecords) ListForYear(_ context.Context, _ uuid.UUID, _ int) ([]*models.InspectionRecord, error) {
	return f.records, nil
}

// ============================================================================
// Tests
// ============================================================================

func newTestService(m *fakeMaintenance, a *fakeAssets, r *fakeRecords) *Service {
	return NewService(m, a, r, nil, logger.Nop())
}

func TestBuildChecklist_YearBounds(t *testing.T) {
	svc := newTestService(&fakeMaintenance{}, &fakeAssets{}, &fakeRecords{})

	for _, year := range []int{1999, 2101, 0} {
		if _, err := svc.BuildChecklist(context.Background(), uuid.New(), year); err == nil {
			t.Errorf("expected error for year %d", year)
		}
	}
}

func TestBuildChecklist_UnknownItem(t *testing.T) {
	svc := newTestService(&fakeMaintenance{}, &fakeAssets{}, &fakeRecords{})

	_, err := svc.BuildChecklist(context.Background(), uuid.New(), 2026)
	if err == nil {
		t.Fatal("expected error for unknown maintenance item")
	}
	if !apperrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestBuildChecklist_ProjectsTaskGrids(t *testing.T) {
	itemID := uuid.New()
	taskID := uuid.New()
	assetID := uuid.New()

	m := &fakeMaintenance{
		item: &models.MaintenanceItem{ID: itemID, ItemName: "Server Room"},
		tasks: []*models.InspectionTask{{
			ID:            taskID,
			MaintenanceID: itemID,
			Text:          "UPS batteries",
			Frequency:     "monthly",
			Schedule: models.ScheduleDocument{
				Frequency: checklist.FrequencyMonthly,
				Monthly: map[string]string{
					"January": "2026-01-10",
					"March":   "2026-03-20",
				},
			},
		}},
		links: []*models.AssetLink{{
			ID:            uuid.New(),
			MaintenanceID: itemID,
			TaskID:        &taskID,
			AssetID:       assetID,
		}},
	}
	a := &fakeAssets{assets: []*models.Asset{{
		ID:       assetID,
		Tag:      "UPS-01",
		Location: "Server Room",
	}}}
	r := &fakeRecords{records: []*models.InspectionRecord{{
		ID:             uuid.New(),
		MaintenanceID:  itemID,
		AssetID:        assetID,
		InspectionDate: "2026-01-10",
		Status:         models.InspectionComplete,
		Condition:      models.ConditionNormal,
		UpdatedAt:      time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC),
	}}}

	svc := newTestService(m, a, r)

	grids, err := svc.BuildChecklist(context.Background(), itemID, 2026)
	if err != nil {
		t.Fatalf("BuildChecklist: %v", err)
	}
	if len(grids) != 1 {
		t.Fatalf("expected 1 task grid, got %d", len(grids))
	}

	tg := grids[0]
	if tg.TaskID != taskID || tg.Frequency != "monthly" {
		t.Fatalf("unexpected task grid header: %+v", tg)
	}

	// January 10 falls in week slot 2 and was completed
	jan := tg.Grid[0][1]
	if jan.Date == nil || jan.Date.Day() != 10 {
		t.Fatalf("expected January cell on day 10, got %+v", jan)
	}
	if jan.State != checklist.StateCompleted {
		t.Fatalf("expected completed January cell, got %q", jan.State)
	}

	// March 20 was never inspected
	mar := tg.Grid[2][2]
	if mar.Date == nil || mar.Date.Day() != 20 {
		t.Fatalf("expected March cell on day 20, got %+v", mar)
	}
	if mar.State == checklist.StateCompleted {
		t.Fatal("March cell must not be completed without a record")
	}

	// February has no schedule entry
	for slot := 0; slot < 4; slot++ {
		if tg.Grid[1][slot].Date != nil {
			t.Fatalf("expected empty February, got cell in slot %d", slot)
		}
	}
}

func TestBuildChecklist_BadScheduleSurfacesTaskAndMonth(t *testing.T) {
	itemID := uuid.New()
	m := &fakeMaintenance{
		item: &models.MaintenanceItem{ID: itemID},
		tasks: []*models.InspectionTask{{
			ID:            uuid.New(),
			MaintenanceID: itemID,
			Text:          "Fire Extinguishers",
			Frequency:     "biweekly",
			Schedule:      models.ScheduleDocument{Frequency: "biweekly"},
		}},
	}
	svc := newTestService(m, &fakeAssets{}, &fakeRecords{})

	_, err := svc.BuildChecklist(context.Background(), itemID, 2026)
	if err == nil {
		t.Fatal("expected error for invalid frequency")
	}
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if got := appErr.Details["month"]; got != "January" {
		t.Fatalf("expected failure surfaced for January, got %v", got)
	}
}

func TestLinkedAssetIDs(t *testing.T) {
	taskID := uuid.New()
	otherTask := uuid.New()
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()

	links := []*models.AssetLink{
		{TaskID: &taskID, AssetID: a1},    // scoped to this task
		{TaskID: nil, AssetID: a2},        // item-wide
		{TaskID: &otherTask, AssetID: a3}, // scoped elsewhere
	}

	ids := linkedAssetIDs(taskID, links)
	if len(ids) != 2 {
		t.Fatalf("expected 2 linked assets, got %d", len(ids))
	}
	want := map[string]bool{a1.String(): true, a2.String(): true}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected linked asset %s", id)
		}
	}
}
