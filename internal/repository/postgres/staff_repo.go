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

// StaffRepository handles CRUD for staff members.
type StaffRepository struct {
	db *DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, name, email, role, active, created_at, updated_at`

func scanStaff(row pgx.Row) (*models.Staff, error) {
	s := &models.Staff{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create creates a new staff member.
func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO staff (id, name, email, role, active)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.Name, s.Email, s.Role, s.Active,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("staff member")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create staff member")
	}
	return nil
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	s, err := scanStaff(r.db.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("staff member")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get staff member")
	}
	return s, nil
}

// GetByEmail retrieves a staff member by email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	s, err := scanStaff(r.db.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("staff member")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get staff member")
	}
	return s, nil
}

// List returns staff matching the filter, name order.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]*models.Staff, int64, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM staff WHERE 1=1`

	var args []interface{}
	argIdx := 1

	if filter.Role != "" {
		clause := fmt.Sprintf(" AND role = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Role)
		argIdx++
	}
	if filter.Active != nil {
		clause := fmt.Sprintf(" AND active = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, *filter.Active)
		argIdx++
	}
	if filter.Search != "" {
		clause := fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count staff")
	}

	query += " ORDER BY name ASC"
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
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list staff")
	}
	defer rows.Close()

	var staff []*models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan staff member")
		}
		staff = append(staff, s)
	}
	return staff, total, rows.Err()
}

// Update applies non-nil fields from the input.
func (r *StaffRepository) Update(ctx context.Context, id uuid.UUID, input *models.UpdateStaffInput) error {
	set := "updated_at = NOW()"
	var args []interface{}
	argIdx := 1

	add := func(col string, val interface{}) {
		set += fmt.Sprintf(", %s = $%d", col, argIdx)
		args = append(args, val)
		argIdx++
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Email != nil {
		add("email", *input.Email)
	}
	if input.Role != nil {
		add("role", *input.Role)
	}
	if input.Active != nil {
		add("active", *input.Active)
	}

	args = append(args, id)
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE staff SET %s WHERE id = $%d`, set, argIdx), args...)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("staff member")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update staff member")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("staff member")
	}
	return nil
}

// Delete deletes a staff member. Assignments cascade.
func (r *StaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete staff member")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("staff member")
	}
	return nil
}
