// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package staff manages maintenance staff members.
package staff

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

// Service manages staff members.
type Service struct {
	repo   *postgres.StaffRepository
	logger *logger.Logger
}

// NewService creates a new staff service.
func NewService(repo *postgres.StaffRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.Named("staff"),
	}
}

// Create adds a new staff member.
func (s *Service) Create(ctx context.Context, input *models.CreateStaffInput) (*models.Staff, error) {
	role, err := parseRole(input.Role)
	if err != nil {
		return nil, err
	}

	member := &models.Staff{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.ToLower(strings.TrimSpace(input.Email)),
		Role:   role,
		Active: true,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create staff member: %w", err)
	}

	s.logger.Info("created staff member",
		"id", member.ID,
		"email", member.Email,
		"role", member.Role,
	)
	return member, nil
}

// Get retrieves a staff member by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get staff member %s: %w", id, err)
	}
	return member, nil
}

// List returns staff members matching the filter.
func (s *Service) List(ctx context.Context, filter models.StaffFilter) ([]*models.Staff, int64, error) {
	if filter.Role != "" {
		if _, err := parseRole(string(filter.Role)); err != nil {
			return nil, 0, err
		}
	}
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	return members, total, nil
}

// Update applies a partial update to a staff member.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *models.UpdateStaffInput) (*models.Staff, error) {
	if input.Role != nil {
		if _, err := parseRole(*input.Role); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		return nil, fmt.Errorf("update staff member %s: %w", id, err)
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload staff member %s: %w", id, err)
	}

	s.logger.Info("updated staff member", "id", id, "email", member.Email)
	return member, nil
}

// Delete removes a staff member. Assignments cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete staff member %s: %w", id, err)
	}
	s.logger.Info("deleted staff member", "id", id)
	return nil
}

// parseRole validates a staff role string.
func parseRole(s string) (models.StaffRole, error) {
	role := models.StaffRole(strings.ToLower(strings.TrimSpace(s)))
	if !models.ValidStaffRoles[role] {
		return "", errors.NewValidationError(fmt.Sprintf("invalid staff role: %q", s))
	}
	return role, nil
}
