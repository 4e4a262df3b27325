// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package inspection manages inspection completion records.
package inspection

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/checklist"
	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/repository/postgres"
	"github.com/ferrovia/mantix/internal/repository/redis"
)

// Service manages inspection records.
type Service struct {
	repo   *postgres.InspectionRepository
	cache  *redis.GridCache
	logger *logger.Logger
}

// NewService creates a new inspection service. cache may be nil when
// Redis is not configured.
func NewService(repo *postgres.InspectionRepository, cache *redis.GridCache, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: log.Named("inspection"),
	}
}

func (s *Service) invalidate(ctx context.Context, maintenanceID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItem(ctx, maintenanceID.String()); err != nil {
		s.logger.Warn("grid cache invalidation failed",
			"maintenance_id", maintenanceID,
			"error", err,
		)
	}
}

// Create submits an inspection record. The stored date is normalized to
// YYYY-MM-DD and the condition to the canonical enum.
func (s *Service) Create(ctx context.Context, input *models.CreateInspectionInput) (*models.InspectionRecord, error) {
	date, ok := checklist.NormalizeDate(input.InspectionDate)
	if !ok {
		return nil, errors.NewValidationError(
			fmt.Sprintf("unparseable inspection date: %q", input.InspectionDate))
	}

	rec := &models.InspectionRecord{
		MaintenanceID:  input.MaintenanceID,
		AssetID:        input.AssetID,
		InspectionDate: date,
		Status:         models.InspectionStatus(input.Status),
		Condition:      models.NormalizeCondition(input.Condition),
		Notes:          input.Notes,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create inspection record: %w", err)
	}

	s.invalidate(ctx, rec.MaintenanceID)

	s.logger.Info("recorded inspection",
		"id", rec.ID,
		"maintenance_id", rec.MaintenanceID,
		"asset_id", rec.AssetID,
		"date", rec.InspectionDate,
		"status", rec.Status,
		"condition", rec.Condition,
	)
	return rec, nil
}

// Get retrieves an inspection record by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.InspectionRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get inspection record %s: %w", id, err)
	}
	return rec, nil
}

// List returns inspection records matching the filter.
func (s *Service) List(ctx context.Context, filter models.InspectionFilter) ([]*models.InspectionRecord, int64, error) {
	if filter.From != "" {
		normalized, ok := checklist.NormalizeDate(filter.From)
		if !ok {
			return nil, 0, errors.NewValidationError(fmt.Sprintf("unparseable from date: %q", filter.From))
		}
		filter.From = normalized
	}
	if filter.To != "" {
		normalized, ok := checklist.NormalizeDate(filter.To)
		if !ok {
			return nil, 0, errors.NewValidationError(fmt.Sprintf("unparseable to date: %q", filter.To))
		}
		filter.To = normalized
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list inspection records: %w", err)
	}
	return records, total, nil
}

// SetStatus updates the status and condition of an inspection record.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status, condition, notes string) (*models.InspectionRecord, error) {
	st := models.InspectionStatus(status)
	if st != models.InspectionOpen && st != models.InspectionComplete {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid inspection status: %q", status))
	}

	if err := s.repo.SetStatus(ctx, id, st, models.NormalizeCondition(condition), notes); err != nil {
		return nil, fmt.Errorf("update inspection record %s: %w", id, err)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload inspection record %s: %w", id, err)
	}

	s.invalidate(ctx, rec.MaintenanceID)

	s.logger.Info("updated inspection record",
		"id", id,
		"status", rec.Status,
		"condition", rec.Condition,
	)
	return rec, nil
}

// Delete removes an inspection record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete inspection record %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inspection record %s: %w", id, err)
	}
	s.invalidate(ctx, rec.MaintenanceID)
	s.logger.Info("deleted inspection record", "id", id)
	return nil
}
