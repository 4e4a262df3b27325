// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package maintenance manages maintenance items, their inspection tasks,
// asset links and staff assignments.
package maintenance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/checklist"
	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/repository/postgres"
	"github.com/ferrovia/mantix/internal/repository/redis"
)

// Service manages maintenance items and their schedules.
type Service struct {
	repo   *postgres.MaintenanceRepository
	cache  *redis.GridCache
	logger *logger.Logger
}

// NewService creates a new maintenance service. cache may be nil when
// Redis is not configured.
func NewService(repo *postgres.MaintenanceRepository, cache *redis.GridCache, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: log.Named("maintenance"),
	}
}

// invalidate drops cached grids for a maintenance item. Cache failures are
// logged, never surfaced: the cache self-heals via TTL.
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

// ============================================================================
// Maintenance items
// ============================================================================

// CreateItem creates a maintenance item and assigns the given staff.
func (s *Service) CreateItem(ctx context.Context, input *models.CreateMaintenanceItemInput) (*models.MaintenanceItem, error) {
	item := &models.MaintenanceItem{
		Branch:   strings.TrimSpace(input.Branch),
		Location: strings.TrimSpace(input.Location),
		ItemName: strings.TrimSpace(input.ItemName),
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create maintenance item: %w", err)
	}

	if len(input.StaffIDs) > 0 {
		if err := s.repo.SetStaff(ctx, item.ID, input.StaffIDs); err != nil {
			return nil, fmt.Errorf("assign staff to maintenance item %s: %w", item.ID, err)
		}
		item.StaffIDs = input.StaffIDs
	}

	s.logger.Info("created maintenance item",
		"id", item.ID,
		"item_name", item.ItemName,
		"branch", item.Branch,
	)
	return item, nil
}

// GetItem retrieves a maintenance item by ID.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*models.MaintenanceItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get maintenance item %s: %w", id, err)
	}
	return item, nil
}

// ListItems returns maintenance items matching the filter.
func (s *Service) ListItems(ctx context.Context, filter models.MaintenanceFilter) ([]*models.MaintenanceItem, int64, error) {
	items, total, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list maintenance items: %w", err)
	}
	return items, total, nil
}

// UpdateItem applies a partial update to a maintenance item.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, input *models.UpdateMaintenanceItemInput) (*models.MaintenanceItem, error) {
	if err := s.repo.UpdateItem(ctx, id, input); err != nil {
		return nil, fmt.Errorf("update maintenance item %s: %w", id, err)
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload maintenance item %s: %w", id, err)
	}

	// Location changes can re-match assets via the location heuristic
	s.invalidate(ctx, id)

	s.logger.Info("updated maintenance item", "id", id, "item_name", item.ItemName)
	return item, nil
}

// DeleteItem removes a maintenance item with everything under it.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete maintenance item %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("deleted maintenance item", "id", id)
	return nil
}

// SetStaff replaces the staff assignment of a maintenance item.
func (s *Service) SetStaff(ctx context.Context, id uuid.UUID, staffIDs []uuid.UUID) error {
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		return fmt.Errorf("set staff for maintenance item %s: %w", id, err)
	}
	if err := s.repo.SetStaff(ctx, id, staffIDs); err != nil {
		return fmt.Errorf("set staff for maintenance item %s: %w", id, err)
	}
	s.logger.Info("updated staff assignment", "maintenance_id", id, "staff_count", len(staffIDs))
	return nil
}

// ============================================================================
// Inspection tasks
// ============================================================================

// CreateTask adds an inspection task to a maintenance item.
func (s *Service) CreateTask(ctx context.Context, maintenanceID uuid.UUID, input *models.CreateTaskInput) (*models.InspectionTask, error) {
	frequency, ok := checklist.ParseFrequency(input.Frequency)
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid frequency: %q", input.Frequency))
	}

	spec := input.Schedule.Spec()
	spec.Frequency = frequency
	if err := spec.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	task := &models.InspectionTask{
		MaintenanceID: maintenanceID,
		Text:          strings.TrimSpace(input.Text),
		Frequency:     string(frequency),
		Schedule:      models.ScheduleDocument(spec),
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create inspection task: %w", err)
	}

	s.invalidate(ctx, maintenanceID)

	s.logger.Info("created inspection task",
		"id", task.ID,
		"maintenance_id", maintenanceID,
		"frequency", task.Frequency,
	)
	return task, nil
}

// GetTask retrieves an inspection task by ID.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*models.InspectionTask, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get inspection task %s: %w", id, err)
	}
	return task, nil
}

// ListTasks returns the inspection tasks of a maintenance item.
func (s *Service) ListTasks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.InspectionTask, error) {
	tasks, err := s.repo.ListTasks(ctx, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("list inspection tasks for %s: %w", maintenanceID, err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to an inspection task. When the
// schedule or frequency changes, the combined result must still be a
// coherent spec.
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, input *models.UpdateTaskInput) (*models.InspectionTask, error) {
	current, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update inspection task %s: %w", id, err)
	}

	spec := current.Schedule.Spec()
	if input.Schedule != nil {
		spec = input.Schedule.Spec()
	}
	if input.Frequency != nil {
		frequency, ok := checklist.ParseFrequency(*input.Frequency)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid frequency: %q", *input.Frequency))
		}
		spec.Frequency = frequency
		normalized := string(frequency)
		input.Frequency = &normalized
	} else {
		spec.Frequency = checklist.Frequency(current.Frequency)
	}
	if err := spec.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if input.Schedule != nil {
		doc := models.ScheduleDocument(spec)
		input.Schedule = &doc
	}

	if err := s.repo.UpdateTask(ctx, id, input); err != nil {
		return nil, fmt.Errorf("update inspection task %s: %w", id, err)
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload inspection task %s: %w", id, err)
	}

	s.invalidate(ctx, task.MaintenanceID)

	s.logger.Info("updated inspection task", "id", id, "maintenance_id", task.MaintenanceID)
	return task, nil
}

// DeleteTask removes an inspection task.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("delete inspection task %s: %w", id, err)
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete inspection task %s: %w", id, err)
	}
	s.invalidate(ctx, task.MaintenanceID)
	s.logger.Info("deleted inspection task", "id", id)
	return nil
}

// ============================================================================
// Asset links
// ============================================================================

// LinkAsset associates an asset with a maintenance item, optionally for a
// single task only.
func (s *Service) LinkAsset(ctx context.Context, maintenanceID, assetID uuid.UUID, taskID *uuid.UUID) (*models.AssetLink, error) {
	link := &models.AssetLink{
		MaintenanceID: maintenanceID,
		TaskID:        taskID,
		AssetID:       assetID,
	}
	if err := s.repo.LinkAsset(ctx, link); err != nil {
		return nil, fmt.Errorf("link asset %s to maintenance item %s: %w", assetID, maintenanceID, err)
	}

	s.invalidate(ctx, maintenanceID)

	s.logger.Info("linked asset",
		"maintenance_id", maintenanceID,
		"asset_id", assetID,
		"task_scoped", taskID != nil,
	)
	return link, nil
}

// UnlinkAsset removes an asset link.
func (s *Service) UnlinkAsset(ctx context.Context, maintenanceID, linkID uuid.UUID) error {
	if err := s.repo.UnlinkAsset(ctx, linkID); err != nil {
		return fmt.Errorf("unlink asset link %s: %w", linkID, err)
	}
	s.invalidate(ctx, maintenanceID)
	s.logger.Info("unlinked asset", "maintenance_id", maintenanceID, "link_id", linkID)
	return nil
}

// ListLinks returns the asset links of a maintenance item.
func (s *Service) ListLinks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.AssetLink, error) {
	links, err := s.repo.ListLinks(ctx, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("list asset links for %s: %w", maintenanceID, err)
	}
	return links, nil
}
