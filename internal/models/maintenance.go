// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovia/mantix/internal/checklist"
)

// MaintenanceItem groups the inspection tasks of one location/equipment
// line, together with assigned staff.
type MaintenanceItem struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Branch    string      `json:"branch" db:"branch"`
	Location  string      `json:"location" db:"location"`
	ItemName  string      `json:"item_name" db:"item_name"`
	StaffIDs  []uuid.UUID `json:"staff_ids,omitempty" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// InspectionTask is a single named checklist line item of a maintenance
// item. Every task owns its own independent schedule.
type InspectionTask struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	MaintenanceID uuid.UUID        `json:"maintenance_id" db:"maintenance_id"`
	Text          string           `json:"text" db:"text"`
	Frequency     string           `json:"frequency" db:"frequency"`
	Schedule      ScheduleDocument `json:"schedule" db:"schedule"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// AssetLink is an explicit maintenance-asset association. TaskID is set
// when the link targets one task rather than the whole item.
type AssetLink struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	MaintenanceID uuid.UUID  `json:"maintenance_id" db:"maintenance_id"`
	TaskID        *uuid.UUID `json:"task_id,omitempty" db:"task_id"`
	AssetID       uuid.UUID  `json:"asset_id" db:"asset_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ============================================================================
// Schedule JSONB document
// ============================================================================

// ScheduleDocument stores a checklist.ScheduleSpec in a JSONB column.
type ScheduleDocument checklist.ScheduleSpec

// Spec returns the document as the checklist library's spec type.
func (d ScheduleDocument) Spec() checklist.ScheduleSpec {
	return checklist.ScheduleSpec(d)
}

// Scan implements sql.Scanner for reading the JSONB column.
func (d *ScheduleDocument) Scan(value interface{}) error {
	return scanJSONB(d, value)
}

// Value implements driver.Valuer for writing the JSONB column.
func (d ScheduleDocument) Value() (driver.Value, error) {
	return valueJSONB(d)
}

// ============================================================================
// Inputs
// ============================================================================

// CreateMaintenanceItemInput represents input for creating a maintenance
// item.
type CreateMaintenanceItemInput struct {
	Branch   string      `json:"branch" validate:"required,min=1,max=100"`
	Location string      `json:"location" validate:"required,min=1,max=200"`
	ItemName string      `json:"item_name" validate:"required,min=1,max=200"`
	StaffIDs []uuid.UUID `json:"staff_ids,omitempty"`
}

// UpdateMaintenanceItemInput represents input for updating a maintenance
// item. Nil fields are left unchanged.
type UpdateMaintenanceItemInput struct {
	Branch   *string `json:"branch,omitempty" validate:"omitempty,min=1,max=100"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	ItemName *string `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
}

// CreateTaskInput represents input for adding an inspection task to a
// maintenance item.
type CreateTaskInput struct {
	Text      string           `json:"text" validate:"required,min=1,max=300"`
	Frequency string           `json:"frequency" validate:"required,frequency"`
	Schedule  ScheduleDocument `json:"schedule,omitempty"`
}

// UpdateTaskInput represents input for updating an inspection task.
type UpdateTaskInput struct {
	Text      *string           `json:"text,omitempty" validate:"omitempty,min=1,max=300"`
	Frequency *string           `json:"frequency,omitempty" validate:"omitempty,frequency"`
	Schedule  *ScheduleDocument `json:"schedule,omitempty"`
}

// MaintenanceFilter narrows maintenance item listings.
type MaintenanceFilter struct {
	Branch   string
	Location string
	Search   string
	Limit    int
	Offset   int
}
