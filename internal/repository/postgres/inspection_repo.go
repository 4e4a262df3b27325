// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ferrovia/mantix/internal/models"
	apperrors "github.com/ferrovia/mantix/internal/pkg/errors"
)

// InspectionRepository handles CRUD for inspection completion records.
type InspectionRepository struct {
	db *DB
}

// NewInspectionRepository creates a new inspection repository.
func NewInspectionRepository(db *DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

const recordColumns = `id, maintenance_id, asset_id, inspection_date, status, condition, notes, created_at, updated_at`

func scanRecord(row pgx.Row) (*models.InspectionRecord, error) {
	rec := &models.InspectionRecord{}
	err := row.Scan(
		&rec.ID, &rec.MaintenanceID, &rec.AssetID, &rec.InspectionDate,
		&rec.Status, &rec.Condition, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create creates a new inspection record.
func (r *InspectionRepository) Create(ctx context.Context, rec *models.InspectionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO inspection_records (id, maintenance_id, asset_id, inspection_date, status, condition, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.MaintenanceID, rec.AssetID, rec.InspectionDate,
		rec.Status, rec.Condition, rec.Notes,
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return apperrors.NotFound("asset or maintenance item")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create inspection record")
	}
	return nil
}

// GetByID retrieves an inspection record by ID.
func (r *InspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InspectionRecord, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM inspection_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("inspection record")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get inspection record")
	}
	return rec, nil
}

// List returns inspection records matching the filter, newest first.
func (r *InspectionRepository) List(ctx context.Context, filter models.InspectionFilter) ([]*models.InspectionRecord, int64, error) {
	query := `SELECT ` + recordColumns + ` FROM inspection_records WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM inspection_records WHERE 1=1`

	var args []interface{}
	argIdx := 1

	if filter.MaintenanceID != uuid.Nil {
		clause := fmt.Sprintf(" AND maintenance_id = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.MaintenanceID)
		argIdx++
	}
	if filter.AssetID != uuid.Nil {
		clause := fmt.Sprintf(" AND asset_id = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.AssetID)
		argIdx++
	}
	if filter.From != "" {
		clause := fmt.Sprintf(" AND inspection_date >= $%d::date", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.From)
		argIdx++
	}
	if filter.To != "" {
		clause := fmt.Sprintf(" AND inspection_date <= $%d::date", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.To)
		argIdx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count inspection records")
	}

	query += " ORDER BY inspection_date DESC, updated_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
		argIdx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list inspection records")
	}
	defer rows.Close()

	var records []*models.InspectionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan inspection record")
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// ListForYear returns every record for a maintenance item within a
// calendar year. Used to build the checklist record index.
func (r *InspectionRepository) ListForYear(ctx context.Context, maintenanceID uuid.UUID, year int) ([]*models.InspectionRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recordColumns+` FROM inspection_records
		WHERE maintenance_id = $1
		  AND inspection_date >= $2::date
		  AND inspection_date < ($2::date + INTERVAL '1 year')
		ORDER BY inspection_date ASC`,
		maintenanceID, fmt.Sprintf("%04d-01-01", year),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list inspection records")
	}
	defer rows.Close()

	var records []*models.InspectionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan inspection record")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetStatus updates the status and condition of a record.
func (r *InspectionRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.InspectionStatus, condition models.FaultCondition, notes string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE inspection_records
		SET status = $2, condition = $3, notes = $4, updated_at = NOW()
		WHERE id = $1`,
		id, status, condition, notes,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update inspection record")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inspection record")
	}
	return nil
}

// Delete deletes an inspection record.
func (r *InspectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inspection_records WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete inspection record")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inspection record")
	}
	return nil
}
