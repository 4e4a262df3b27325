// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package asset manages the asset register.
package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/models"
	"github.com/ferrovia/mantix/internal/pkg/errors"
	"github.com/ferrovia/mantix/internal/pkg/logger"
	"github.com/ferrovia/mantix/internal/repository/postgres"
)

// Service manages assets.
type Service struct {
	repo   *postgres.AssetRepository
	logger *logger.Logger
}

// NewService creates a new asset service.
func NewService(repo *postgres.AssetRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.Named("asset"),
	}
}

// Create registers a new asset.
func (s *Service) Create(ctx context.Context, input *models.CreateAssetInput) (*models.Asset, error) {
	a := &models.Asset{
		Tag:          strings.TrimSpace(input.Tag),
		Name:         strings.TrimSpace(input.Name),
		Category:     input.Category,
		Location:     input.Location,
		SerialNumber: input.SerialNumber,
		Status:       models.AssetStatusActive,
		PurchaseDate: input.PurchaseDate,
		Notes:        input.Notes,
	}
	if input.Status != "" {
		status, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		a.Status = status
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	s.logger.Info("created asset",
		"id", a.ID,
		"tag", a.Tag,
		"category", a.Category,
	)
	return a, nil
}

// Get retrieves an asset by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get asset %s: %w", id, err)
	}
	return a, nil
}

// GetByTag retrieves an asset by its tag.
func (s *Service) GetByTag(ctx context.Context, tag string) (*models.Asset, error) {
	a, err := s.repo.GetByTag(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("get asset by tag %q: %w", tag, err)
	}
	return a, nil
}

// List returns assets matching the filter.
func (s *Service) List(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, int64, error) {
	if filter.Status != "" {
		if _, err := parseStatus(string(filter.Status)); err != nil {
			return nil, 0, err
		}
	}
	assets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	return assets, total, nil
}

// Update applies a partial update to an asset.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *models.UpdateAssetInput) (*models.Asset, error) {
	if input.Status != nil {
		if _, err := parseStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		return nil, fmt.Errorf("update asset %s: %w", id, err)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload asset %s: %w", id, err)
	}

	s.logger.Info("updated asset", "id", id, "tag", a.Tag)
	return a, nil
}

// Delete removes an asset. Links and records referencing it cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete asset %s: %w", id, err)
	}
	s.logger.Info("deleted asset", "id", id)
	return nil
}

// Categories returns the distinct asset categories in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list asset categories: %w", err)
	}
	return categories, nil
}

// parseStatus validates an asset status string.
func parseStatus(s string) (models.AssetStatus, error) {
	status := models.AssetStatus(strings.ToLower(strings.TrimSpace(s)))
	if !models.ValidAssetStatuses[status] {
		return "", errors.NewValidationError(fmt.Sprintf("invalid asset status: %q", s))
	}
	return status, nil
}
