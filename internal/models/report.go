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

// ReportStatus represents the lifecycle of a generated report.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// Report is a persisted year checklist projection for one maintenance
// item. The grid payload is the same structure the interactive checklist
// endpoint serves; rendering to PDF/CSV is a client concern.
type Report struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	MaintenanceID uuid.UUID    `json:"maintenance_id" db:"maintenance_id"`
	Year          int          `json:"year" db:"year"`
	Status        ReportStatus `json:"status" db:"status"`
	Grid          GridDocument `json:"grid,omitempty" db:"grid"`
	Error         *string      `json:"error,omitempty" db:"error"`
	GeneratedAt   *time.Time   `json:"generated_at,omitempty" db:"generated_at"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

// TaskGrid pairs a task with its projected year grid.
type TaskGrid struct {
	TaskID    uuid.UUID      `json:"task_id"`
	TaskText  string         `json:"task_text"`
	Frequency string         `json:"frequency"`
	Grid      checklist.Grid `json:"grid"`
}

// GridDocument stores the per-task grids of a report in a JSONB column.
type GridDocument []TaskGrid

// Scan implements sql.Scanner for reading the JSONB column.
func (d *GridDocument) Scan(value interface{}) error {
	return scanJSONB(d, value)
}

// Value implements driver.Valuer for writing the JSONB column.
func (d GridDocument) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return valueJSONB(d)
}

// GenerateReportInput represents input for requesting report generation.
type GenerateReportInput struct {
	MaintenanceID uuid.UUID `json:"maintenance_id" validate:"required"`
	Year          int       `json:"year" validate:"required,min=2000,max=2100"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	MaintenanceID uuid.UUID
	Year          int
	Status        ReportStatus
	Limit         int
	Offset        int
}
