// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
)

type fakeGridBuilder struct {
	grids []models.TaskGrid
	err   error
	calls int
}

func (f *fakeGridBuilder) BuildChecklist(_ context.Context, _ uuid.UUID, _ int) ([]models.TaskGrid, error) {
	f.calls++
	return f.grids, f.err
}

type fakeStore struct {
	upserted  []*models.Report
	upsertErr error
	staleIDs  []uuid.UUID
	staleErr  error
}

func (f *fakeStore) Upsert(_ context.Context, rep *models.Report) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, rep)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, _ uuid.UUID) (*models.Report, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) GetByYear(_ context.Context, _ uuid.UUID, _ int) (*models.Report, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) List(_ context.Context, _ models.ReportFilter) ([]*models.Report, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeStore) ListStale(_ context.Context, _ int) ([]uuid.UUID, error) {
	return f.staleIDs, f.staleErr
}

func TestNewService(t *testing.T) {
	svc := NewService(nil, nil, logger.Nop())
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	if svc.now == nil {
		t.Error("expected default clock")
	}
}

func TestGenerate_StoresCompletedReport(t *testing.T) {
	store := &fakeStore{}
	builder := &fakeGridBuilder{grids: []models.TaskGrid{
		{TaskID: uuid.New(), TaskText: "check brakes"},
	}}
	svc := NewService(store, builder, logger.Nop())

	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rep, err := svc.Generate(context.Background(), &models.GenerateReportInput{
		MaintenanceID: uuid.New(),
		Year:          2026,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rep.Status != models.ReportStatusCompleted {
		t.Errorf("expected status %q, got %q", models.ReportStatusCompleted, rep.Status)
	}
	if len(rep.Grid) != 1 {
		t.Errorf("expected 1 task grid, got %d", len(rep.Grid))
	}
	if rep.GeneratedAt == nil || !rep.GeneratedAt.Equal(fixed) {
		t.Errorf("expected generated_at %v, got %v", fixed, rep.GeneratedAt)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(store.upserted))
	}
}

func TestGenerate_StoresFailedReport(t *testing.T) {
	store := &fakeStore{}
	builder := &fakeGridBuilder{err: errors.New("bad schedule configuration")}
	svc := NewService(store, builder, logger.Nop())

	_, err := svc.Generate(context.Background(), &models.GenerateReportInput{
		MaintenanceID: uuid.New(),
		Year:          2026,
	})
	if err == nil {
		t.Fatal("expected projection error to surface")
	}
	if len(store.upserted) != 1 {
		t.Fatalf("expected failed report to be stored, got %d upserts", len(store.upserted))
	}
	rep := store.upserted[0]
	if rep.Status != models.ReportStatusFailed {
		t.Errorf("expected status %q, got %q", models.ReportStatusFailed, rep.Status)
	}
	if rep.Error == nil || *rep.Error != "bad schedule configuration" {
		t.Errorf("expected stored error message, got %v", rep.Error)
	}
}

func TestRegenerateStale(t *testing.T) {
	good := uuid.New()
	bad := uuid.New()
	store := &fakeStore{staleIDs: []uuid.UUID{good, bad}}

	builder := &fakeGridBuilder{}
	svc := NewService(store, builder, logger.Nop())

	// Fail the second projection; regeneration should continue past it.
	calls := 0
	svc.grids = gridBuilderFunc(func(ctx context.Context, id uuid.UUID, year int) ([]models.TaskGrid, error) {
		calls++
		if id == bad {
			return nil, errors.New("projection failed")
		}
		return nil, nil
	})

	count, err := svc.RegenerateStale(context.Background(), 2026)
	if err != nil {
		t.Fatalf("RegenerateStale failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 regenerated report, got %d", count)
	}
	if calls != 2 {
		t.Errorf("expected 2 projection attempts, got %d", calls)
	}
}

func TestRegenerateStale_ListError(t *testing.T) {
	store := &fakeStore{staleErr: errors.New("database unavailable")}
	svc := NewService(store, &fakeGridBuilder{}, logger.Nop())

	if _, err := svc.RegenerateStale(context.Background(), 2026); err == nil {
		t.Fatal("expected error when stale listing fails")
	}
}

type gridBuilderFunc func(ctx context.Context, maintenanceID uuid.UUID, year int) ([]models.TaskGrid, error)

func (f gridBuilderFunc) BuildChecklist(ctx context.Context, maintenanceID uuid.UUID, year int) ([]models.TaskGrid, error) {
	return f(ctx, maintenanceID, year)
}
