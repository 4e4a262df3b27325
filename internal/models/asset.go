// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus represents the lifecycle state of an asset.
type AssetStatus string

const (
	AssetStatusActive  AssetStatus = "active"
	AssetStatusRepair  AssetStatus = "repair"
	AssetStatusRetired AssetStatus = "retired"
)

// ValidAssetStatuses enumerates the accepted asset statuses.
var ValidAssetStatuses = map[AssetStatus]bool{
	AssetStatusActive:  true,
	AssetStatusRepair:  true,
	AssetStatusRetired: true,
}

// Asset represents a tracked piece of IT equipment.
type Asset struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Tag          string      `json:"tag" db:"tag"`
	Name         string      `json:"name" db:"name"`
	Category     string      `json:"category,omitempty" db:"category"`
	Location     string      `json:"location" db:"location"`
	SerialNumber *string     `json:"serial_number,omitempty" db:"serial_number"`
	Status       AssetStatus `json:"status" db:"status"`
	PurchaseDate *string     `json:"purchase_date,omitempty" db:"purchase_date"`
	Notes        string      `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// IsActive returns true when the asset is in service.
func (a *Asset) IsActive() bool {
	return a.Status == AssetStatusActive
}

// CreateAssetInput represents input for registering an asset.
type CreateAssetInput struct {
	Tag          string  `json:"tag" validate:"required,asset_tag,max=64"`
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Category     string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Location     string  `json:"location" validate:"required,max=200"`
	SerialNumber *string `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	Status       string  `json:"status,omitempty" validate:"omitempty,oneof=active repair retired"`
	PurchaseDate *string `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateAssetInput represents input for updating an asset. Nil fields are
// left unchanged.
type UpdateAssetInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category     *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=200"`
	SerialNumber *string `json:"serial_number,omitempty" validate:"omitempty,max=100"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active repair retired"`
	PurchaseDate *string `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	Category string
	Status   AssetStatus
	Location string
	Search   string
	Limit    int
	Offset   int
}
