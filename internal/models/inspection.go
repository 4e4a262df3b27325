// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InspectionStatus represents whether an inspection has been carried out.
type InspectionStatus string

const (
	InspectionOpen     InspectionStatus = "open"
	InspectionComplete InspectionStatus = "complete"
)

// FaultCondition represents the outcome of a completed inspection.
type FaultCondition string

const (
	ConditionNormal FaultCondition = "normal"
	ConditionFault  FaultCondition = "fault"
)

// NormalizeCondition maps user and legacy condition spellings onto the
// canonical enum. The pre-migration data set used "abnormal" for faults.
func NormalizeCondition(s string) FaultCondition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fault", "abnormal":
		return ConditionFault
	default:
		return ConditionNormal
	}
}

// InspectionRecord is one inspection submission for an asset on a date.
// Duplicate submissions for the same (date, asset) may exist; readers merge
// them latest-UpdatedAt-wins.
type InspectionRecord struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	MaintenanceID  uuid.UUID        `json:"maintenance_id" db:"maintenance_id"`
	AssetID        uuid.UUID        `json:"asset_id" db:"asset_id"`
	InspectionDate string           `json:"inspection_date" db:"inspection_date"`
	Status         InspectionStatus `json:"status" db:"status"`
	Condition      FaultCondition   `json:"condition" db:"condition"`
	Notes          string           `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// IsFault returns true when the inspection found a fault.
func (r *InspectionRecord) IsFault() bool {
	return r.Condition == ConditionFault
}

// CreateInspectionInput represents input for submitting an inspection.
// Condition accepts the legacy "abnormal" spelling and is normalized on
// ingest.
type CreateInspectionInput struct {
	MaintenanceID  uuid.UUID `json:"maintenance_id" validate:"required"`
	AssetID        uuid.UUID `json:"asset_id" validate:"required"`
	InspectionDate string    `json:"inspection_date" validate:"required"`
	Status         string    `json:"status" validate:"required,oneof=open complete"`
	Condition      string    `json:"condition,omitempty" validate:"omitempty,oneof=normal fault abnormal"`
	Notes          string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// InspectionFilter narrows inspection listings.
type InspectionFilter struct {
	MaintenanceID uuid.UUID
	AssetID       uuid.UUID
	From          string // inclusive YYYY-MM-DD
	To            string // inclusive YYYY-MM-DD
	Limit         int
	Offset        int
}
