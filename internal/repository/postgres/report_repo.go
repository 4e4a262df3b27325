// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ferrovia/mantix/internal/models"
	apperrors "github.com/ferrovia/mantix/internal/pkg/errors"
)

// ReportRepository handles CRUD for yearly checklist reports.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, maintenance_id, year, status, grid, error, generated_at, created_at, updated_at`

func scanReport(row pgx.Row) (*models.Report, error) {
	rep := &models.Report{}
	err := row.Scan(
		&rep.ID, &rep.MaintenanceID, &rep.Year, &rep.Status, &rep.Grid,
		&rep.Error, &rep.GeneratedAt, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Upsert creates or replaces the report for a maintenance item and year.
func (r *ReportRepository) Upsert(ctx context.Context, rep *models.Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO reports (id, maintenance_id, year, status, grid, error, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (maintenance_id, year) DO UPDATE SET
			status = EXCLUDED.status,
			grid = EXCLUDED.grid,
			error = EXCLUDED.error,
			generated_at = EXCLUDED.generated_at,
			updated_at = NOW()`,
		rep.ID, rep.MaintenanceID, rep.Year, rep.Status, rep.Grid,
		rep.Error, rep.GeneratedAt,
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return apperrors.NotFound("maintenance item")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to upsert report")
	}
	return nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("report")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get report")
	}
	return rep, nil
}

// GetByYear retrieves the report for a maintenance item and year.
func (r *ReportRepository) GetByYear(ctx context.Context, maintenanceID uuid.UUID, year int) (*models.Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE maintenance_id = $1 AND year = $2`,
		maintenanceID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("report")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get report")
	}
	return rep, nil
}

// List returns reports matching the filter, newest year first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, int64, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM reports WHERE 1=1`

	var args []interface{}
	argIdx := 1

	if filter.MaintenanceID != uuid.Nil {
		clause := fmt.Sprintf(" AND maintenance_id = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.MaintenanceID)
		argIdx++
	}
	if filter.Year != 0 {
		clause := fmt.Sprintf(" AND year = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Year)
		argIdx++
	}
	if filter.Status != "" {
		clause := fmt.Sprintf(" AND status = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Status)
		argIdx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count reports")
	}

	query += " ORDER BY year DESC, created_at DESC"
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
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list reports")
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan report")
		}
		reports = append(reports, rep)
	}
	return reports, total, rows.Err()
}

// MarkStatus transitions a report's status, recording an error message on
// failure and the generation time on completion.
func (r *ReportRepository) MarkStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, errMsg *string) error {
	var generatedAt *time.Time
	if status == models.ReportStatusCompleted {
		now := time.Now().UTC()
		generatedAt = &now
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE reports SET status = $2, error = $3, generated_at = COALESCE($4, generated_at), updated_at = NOW()
		WHERE id = $1`,
		id, status, errMsg, generatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update report status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("report")
	}
	return nil
}

// Delete deletes a report.
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete report")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("report")
	}
	return nil
}

// ListStale returns maintenance item IDs whose newest inspection record is
// more recent than the stored report for the given year. Used by the
// scheduler to decide what to regenerate.
func (r *ReportRepository) ListStale(ctx context.Context, year int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id
		FROM maintenance_items m
		LEFT JOIN reports rep ON rep.maintenance_id = m.id AND rep.year = $1
		WHERE rep.id IS NULL
		   OR EXISTS (
			SELECT 1 FROM inspection_records ir
			WHERE ir.maintenance_id = m.id AND ir.updated_at > rep.updated_at
		   )`, year)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list stale reports")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan maintenance id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
