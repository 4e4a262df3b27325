// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package report persists yearly checklist projections.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/pkg/utils"
)

// GridBuilder projects the checklist grid for a maintenance item and year.
type GridBuilder interface {
	BuildChecklist(ctx context.Context, maintenanceID uuid.UUID, year int) ([]models.TaskGrid, error)
}

// Store persists generated reports. Satisfied by *postgres.ReportRepository.
type Store interface {
	Upsert(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetByYear(ctx context.Context, maintenanceID uuid.UUID, year int) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListStale(ctx context.Context, year int) ([]uuid.UUID, error)
}

// Service generates and stores reports.
type Service struct {
	repo   Store
	grids  GridBuilder
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new report service.
func NewService(repo Store, grids GridBuilder, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		grids:  grids,
		logger: log.Named("report"),
		now:    utils.Now,
	}
}

// Generate builds the checklist grid for the requested item and year and
// stores it as a completed report. A failed projection is stored as a
// failed report so the outcome is visible.
func (s *Service) Generate(ctx context.Context, input *models.GenerateReportInput) (*models.Report, error) {
	rep := &models.Report{
		MaintenanceID: input.MaintenanceID,
		Year:          input.Year,
		Status:        models.ReportStatusGenerating,
	}

	grids, err := s.grids.BuildChecklist(ctx, input.MaintenanceID, input.Year)
	if err != nil {
		msg := err.Error()
		rep.Status = models.ReportStatusFailed
		rep.Error = &msg
		if upsertErr := s.repo.Upsert(ctx, rep); upsertErr != nil {
			s.logger.Error("failed to store failed report",
				"maintenance_id", input.MaintenanceID,
				"year", input.Year,
				"error", upsertErr,
			)
		}
		return nil, fmt.Errorf("generate report for %s/%d: %w", input.MaintenanceID, input.Year, err)
	}

	rep.Status = models.ReportStatusCompleted
	rep.Grid = grids
	now := s.now()
	rep.GeneratedAt = &now

	if err := s.repo.Upsert(ctx, rep); err != nil {
		return nil, fmt.Errorf("store report for %s/%d: %w", input.MaintenanceID, input.Year, err)
	}

	s.logger.Info("generated report",
		"id", rep.ID,
		"maintenance_id", rep.MaintenanceID,
		"year", rep.Year,
		"tasks", len(grids),
	)
	return rep, nil
}

// Get retrieves a report by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return rep, nil
}

// GetByYear retrieves the stored report for a maintenance item and year.
func (s *Service) GetByYear(ctx context.Context, maintenanceID uuid.UUID, year int) (*models.Report, error) {
	rep, err := s.repo.GetByYear(ctx, maintenanceID, year)
	if err != nil {
		return nil, fmt.Errorf("get report for %s/%d: %w", maintenanceID, year, err)
	}
	return rep, nil
}

// List returns reports matching the filter.
func (s *Service) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, int64, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

// Delete removes a report.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	s.logger.Info("deleted report", "id", id)
	return nil
}

// RegenerateStale rebuilds reports whose inspection data changed since the
// last generation. Called by the scheduler.
func (s *Service) RegenerateStale(ctx context.Context, year int) (int, error) {
	ids, err := s.repo.ListStale(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("list stale reports for %d: %w", year, err)
	}

	regenerated := 0
	for _, id := range ids {
		if _, err := s.Generate(ctx, &models.GenerateReportInput{MaintenanceID: id, Year: year}); err != nil {
			s.logger.Warn("stale report regeneration failed",
				"maintenance_id", id,
				"year", year,
				"error", err,
			)
			continue
		}
		regenerated++
	}

	if regenerated > 0 {
		s.logger.Info("regenerated stale reports", "year", year, "count", regenerated)
	}
	return regenerated, nil
}
