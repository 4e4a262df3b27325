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

// MaintenanceRepository handles CRUD for maintenance items, their
// inspection tasks, asset links and staff assignments.
type MaintenanceRepository struct {
	db *DB
}

// NewMaintenanceRepository creates a new maintenance repository.
func NewMaintenanceRepository(db *DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// ============================================================================
// Maintenance items
// ============================================================================

// CreateItem creates a new maintenance item.
func (r *MaintenanceRepository) CreateItem(ctx context.Context, item *models.MaintenanceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO maintenance_items (id, branch, location, item_name)
		VALUES ($1,$2,$3,$4)`,
		item.ID, item.Branch, item.Location, item.ItemName,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create maintenance item")
	}
	return nil
}

// GetItem retrieves a maintenance item by ID, including assigned staff IDs.
func (r *MaintenanceRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.MaintenanceItem, error) {
	item := &models.MaintenanceItem{}
	err := r.db.QueryRow(ctx, `
		SELECT id, branch, location, item_name, created_at, updated_at
		FROM maintenance_items WHERE id = $1`, id).Scan(
		&item.ID, &item.Branch, &item.Location, &item.ItemName,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("maintenance item")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get maintenance item")
	}

	staffIDs, err := r.assignedStaffIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	item.StaffIDs = staffIDs
	return item, nil
}

// ListItems returns maintenance items matching the filter.
func (r *MaintenanceRepository) ListItems(ctx context.Context, filter models.MaintenanceFilter) ([]*models.MaintenanceItem, int64, error) {
	query := `SELECT id, branch, location, item_name, created_at, updated_at
		FROM maintenance_items WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM maintenance_items WHERE 1=1`

	var args []interface{}
	argIdx := 1

	if filter.Branch != "" {
		clause := fmt.Sprintf(" AND branch = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Branch)
		argIdx++
	}
	if filter.Location != "" {
		clause := fmt.Sprintf(" AND location = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Location)
		argIdx++
	}
	if filter.Search != "" {
		clause := fmt.Sprintf(" AND item_name ILIKE $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count maintenance items")
	}

	query += " ORDER BY item_name ASC"
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
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list maintenance items")
	}
	defer rows.Close()

	var items []*models.MaintenanceItem
	for rows.Next() {
		item := &models.MaintenanceItem{}
		if err := rows.Scan(
			&item.ID, &item.Branch, &item.Location, &item.ItemName,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan maintenance item")
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// UpdateItem applies non-nil fields from the input.
func (r *MaintenanceRepository) UpdateItem(ctx context.Context, id uuid.UUID, input *models.UpdateMaintenanceItemInput) error {
	set := "updated_at = NOW()"
	var args []interface{}
	argIdx := 1

	add := func(col string, val interface{}) {
		set += fmt.Sprintf(", %s = $%d", col, argIdx)
		args = append(args, val)
		argIdx++
	}

	if input.Branch != nil {
		add("branch", *input.Branch)
	}
	if input.Location != nil {
		add("location", *input.Location)
	}
	if input.ItemName != nil {
		add("item_name", *input.ItemName)
	}

	args = append(args, id)
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE maintenance_items SET %s WHERE id = $%d`, set, argIdx), args...)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update maintenance item")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("maintenance item")
	}
	return nil
}

// DeleteItem deletes a maintenance item. Tasks, links, records and
// reports cascade.
func (r *MaintenanceRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM maintenance_items WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete maintenance item")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("maintenance item")
	}
	return nil
}

// ============================================================================
// Staff assignment
// ============================================================================

func (r *MaintenanceRepository) assignedStaffIDs(ctx context.Context, maintenanceID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT staff_id FROM maintenance_staff WHERE maintenance_id = $1 ORDER BY staff_id`,
		maintenanceID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list assigned staff")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan staff id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetStaff replaces the staff assignment for a maintenance item.
func (r *MaintenanceRepository) SetStaff(ctx context.Context, maintenanceID uuid.UUID, staffIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM maintenance_staff WHERE maintenance_id = $1`, maintenanceID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to clear staff assignment")
	}
	for _, staffID := range staffIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO maintenance_staff (maintenance_id, staff_id) VALUES ($1,$2)
			ON CONFLICT DO NOTHING`, maintenanceID, staffID); err != nil {
			if IsForeignKeyError(err) {
				return apperrors.NotFound("staff member")
			}
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to assign staff")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to commit staff assignment")
	}
	return nil
}

// ============================================================================
// Inspection tasks
// ============================================================================

const taskColumns = `id, maintenance_id, text, frequency, schedule, created_at, updated_at`

func scanTask(row pgx.Row) (*models.InspectionTask, error) {
	t := &models.InspectionTask{}
	err := row.Scan(
		&t.ID, &t.MaintenanceID, &t.Text, &t.Frequency, &t.Schedule,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTask creates an inspection task under a maintenance item.
func (r *MaintenanceRepository) CreateTask(ctx context.Context, t *models.InspectionTask) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO inspection_tasks (id, maintenance_id, text, frequency, schedule)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.MaintenanceID, t.Text, t.Frequency, t.Schedule,
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return apperrors.NotFound("maintenance item")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create inspection task")
	}
	return nil
}

// GetTask retrieves an inspection task by ID.
func (r *MaintenanceRepository) GetTask(ctx context.Context, id uuid.UUID) (*models.InspectionTask, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM inspection_tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("inspection task")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get inspection task")
	}
	return t, nil
}

// ListTasks returns all inspection tasks for a maintenance item.
func (r *MaintenanceRepository) ListTasks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.InspectionTask, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM inspection_tasks WHERE maintenance_id = $1 ORDER BY created_at ASC`,
		maintenanceID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list inspection tasks")
	}
	defer rows.Close()

	var tasks []*models.InspectionTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan inspection task")
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies non-nil fields from the input. A schedule update
// replaces the stored document wholesale.
func (r *MaintenanceRepository) UpdateTask(ctx context.Context, id uuid.UUID, input *models.UpdateTaskInput) error {
	set := "updated_at = NOW()"
	var args []interface{}
	argIdx := 1

	add := func(col string, val interface{}) {
		set += fmt.Sprintf(", %s = $%d", col, argIdx)
		args = append(args, val)
		argIdx++
	}

	if input.Text != nil {
		add("text", *input.Text)
	}
	if input.Frequency != nil {
		add("frequency", *input.Frequency)
	}
	if input.Schedule != nil {
		add("schedule", input.Schedule)
	}

	args = append(args, id)
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE inspection_tasks SET %s WHERE id = $%d`, set, argIdx), args...)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update inspection task")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inspection task")
	}
	return nil
}

// DeleteTask deletes an inspection task.
func (r *MaintenanceRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inspection_tasks WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete inspection task")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inspection task")
	}
	return nil
}

// ============================================================================
// Asset links
// ============================================================================

// LinkAsset links an asset to a maintenance item, optionally scoped to a
// single task. Duplicate links are ignored.
func (r *MaintenanceRepository) LinkAsset(ctx context.Context, link *models.AssetLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO asset_links (id, maintenance_id, task_id, asset_id)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT DO NOTHING`,
		link.ID, link.MaintenanceID, link.TaskID, link.AssetID,
	)
	if err != nil {
		if IsForeignKeyError(err) {
			return apperrors.NotFound("asset or maintenance item")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to link asset")
	}
	return nil
}

// UnlinkAsset removes an asset link by ID.
func (r *MaintenanceRepository) UnlinkAsset(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM asset_links WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to unlink asset")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("asset link")
	}
	return nil
}

// ListLinks returns all asset links for a maintenance item.
func (r *MaintenanceRepository) ListLinks(ctx context.Context, maintenanceID uuid.UUID) ([]*models.AssetLink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, maintenance_id, task_id, asset_id, created_at
		FROM asset_links WHERE maintenance_id = $1 ORDER BY created_at ASC`,
		maintenanceID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list asset links")
	}
	defer rows.Close()

	var links []*models.AssetLink
	for rows.Next() {
		l := &models.AssetLink{}
		if err := rows.Scan(&l.ID, &l.MaintenanceID, &l.TaskID, &l.AssetID, &l.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan asset link")
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
