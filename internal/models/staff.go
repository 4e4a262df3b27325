// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole represents what a staff member may do.
type StaffRole string

const (
	RoleAdmin      StaffRole = "admin"
	RoleTechnician StaffRole = "technician"
	RoleViewer     StaffRole = "viewer"
)

// ValidStaffRoles enumerates the accepted roles.
var ValidStaffRoles = map[StaffRole]bool{
	RoleAdmin:      true,
	RoleTechnician: true,
	RoleViewer:     true,
}

// Staff represents a maintenance staff member assignable to items.
type Staff struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      StaffRole `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanEdit returns true for roles allowed to record inspections.
func (s *Staff) CanEdit() bool {
	return s.Role == RoleAdmin || s.Role == RoleTechnician
}

// CreateStaffInput represents input for adding a staff member.
type CreateStaffInput struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"required,email,max=254"`
	Role  string `json:"role" validate:"required,oneof=admin technician viewer"`
}

// UpdateStaffInput represents input for updating a staff member. Nil
// fields are left unchanged.
type UpdateStaffInput struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=admin technician viewer"`
	Active *bool   `json:"active,omitempty"`
}

// StaffFilter narrows staff listings.
type StaffFilter struct {
	Role   StaffRole
	Active *bool
	Search string
	Limit  int
	Offset int
}
