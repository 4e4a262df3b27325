// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package grid projects yearly inspection checklists. It pulls tasks,
// schedules, asset links and completion records together and feeds them
// through the checklist library, caching the resulting grids.
package grid

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/checklist"
	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/repository/redis"
)

// MaintenanceSource supplies tasks and asset links of a maintenance item.
type MaintenanceSource interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.MaintenanceItem, error)
	ListTasks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.InspectionTask, error)
	ListLinks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.AssetLink, error)
}

// AssetSource supplies the asset register.
type AssetSource interface {
	List(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, int64, error)
}

// RecordSource supplies inspection records.
type RecordSource interface {
	ListForYear(ctx context.Context, maintenanceID uuid.UUID, year int) ([]*models.InspectionRecord, error)
}

// Service projects checklist grids.
type Service struct {
	maintenance MaintenanceSource
	assets      AssetSource
	records     RecordSource
	cache       *redis.GridCache
	projector   *checklist.Projector
	logger      *logger.Logger
}

// NewService creates a new grid service. cache may be nil when Redis is
// not configured.
func NewService(maintenance MaintenanceSource, assets AssetSource, records RecordSource, cache *redis.GridCache, log *logger.Logger) *Service {
	return &Service{
		maintenance: maintenance,
		assets:      assets,
		records:     records,
		cache:       cache,
		projector:   checklist.NewProjector(),
		logger:      log.Named("grid"),
	}
}

// BuildChecklist projects the full yearly checklist for a maintenance
// item: one grid per task. Results are cached per item and year.
func (s *Service) BuildChecklist(ctx context.Context, maintenanceID uuid.UUID, year int) ([]models.TaskGrid, error) {
	if year < 2000 || year > 2100 {
		return nil, errors.NewValidationError("year must be between 2000 and 2100")
	}

	if s.cache != nil {
		var cached []models.TaskGrid
		err := s.cache.GetOrSetGrid(ctx, maintenanceID.String(), year, &cached, func() (interface{}, error) {
			return s.project(ctx, maintenanceID, year)
		})
		if err != nil {
			return nil, err
		}
		return cached, nil
	}

	return s.project(ctx, maintenanceID, year)
}

// project does the uncached work of BuildChecklist.
func (s *Service) project(ctx context.Context, maintenanceID uuid.UUID, year int) ([]models.TaskGrid, error) {
	if _, err := s.maintenance.GetItem(ctx, maintenanceID); err != nil {
		return nil, fmt.Errorf("project checklist for %s: %w", maintenanceID, err)
	}

	tasks, err := s.maintenance.ListTasks(ctx, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("project checklist for %s: %w", maintenanceID, err)
	}

	links, err := s.maintenance.ListLinks(ctx, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("project checklist for %s: %w", maintenanceID, err)
	}

	allAssets, _, err := s.assets.List(ctx, models.AssetFilter{})
	if err != nil {
		return nil, fmt.Errorf("project checklist for %s: %w", maintenanceID, err)
	}
	clAssets := make([]checklist.Asset, len(allAssets))
	for i, a := range allAssets {
		clAssets[i] = checklist.Asset{ID: a.ID.String(), Location: a.Location}
	}

	records, err := s.records.ListForYear(ctx, maintenanceID, year)
	if err != nil {
		return nil, fmt.Errorf("project checklist for %s: %w", maintenanceID, err)
	}
	ix := checklist.BuildIndex(toChecklistRecords(records))

	grids := make([]models.TaskGrid, 0, len(tasks))
	for _, task := range tasks {
		clTask := checklist.Task{
			ID:             task.ID.String(),
			Text:           task.Text,
			LinkedAssetIDs: linkedAssetIDs(task.ID, links),
		}

		g, err := s.projector.Project(clTask, task.Schedule.Spec(), year, ix, clAssets)
		if err != nil {
			return nil, err
		}

		grids = append(grids, models.TaskGrid{
			TaskID:    task.ID,
			TaskText:  task.Text,
			Frequency: task.Frequency,
			Grid:      g,
		})
	}

	s.logger.Debug("projected checklist",
		"maintenance_id", maintenanceID,
		"year", year,
		"tasks", len(grids),
		"records", ix.Len(),
	)
	return grids, nil
}

// linkedAssetIDs collects the asset IDs whose link records apply to a
// task: links scoped to the task plus item-wide links with no task scope.
func linkedAssetIDs(taskID uuid.UUID, links []*models.AssetLink) []string {
	var ids []string
	for _, l := range links {
		if l.TaskID == nil || *l.TaskID == taskID {
			ids = append(ids, l.AssetID.String())
		}
	}
	return ids
}

// toChecklistRecords converts persistence records to the checklist
// library's record view.
func toChecklistRecords(records []*models.InspectionRecord) []checklist.Record {
	out := make([]checklist.Record, len(records))
	for i, r := range records {
		out[i] = checklist.Record{
			ID:        r.ID.String(),
			AssetID:   r.AssetID.String(),
			Date:      r.InspectionDate,
			Status:    string(r.Status),
			Condition: string(r.Condition),
			Notes:     r.Notes,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return out
}
