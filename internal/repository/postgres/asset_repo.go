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

// AssetRepository handles CRUD operations for assets.
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, tag, name, category, location, serial_number, status, purchase_date, notes, created_at, updated_at`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	a := &models.Asset{}
	err := row.Scan(
		&a.ID, &a.Tag, &a.Name, &a.Category, &a.Location,
		&a.SerialNumber, &a.Status, &a.PurchaseDate, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create creates a new asset.
func (r *AssetRepository) Create(ctx context.Context, a *models.Asset) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO assets (id, tag, name, category, location, serial_number, status, purchase_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.Tag, a.Name, a.Category, a.Location,
		a.SerialNumber, a.Status, a.PurchaseDate, a.Notes,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("asset")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create asset")
	}
	return nil
}

// GetByID retrieves an asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("asset")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get asset")
	}
	return a, nil
}

// GetByTag retrieves an asset by its unique tag.
func (r *AssetRepository) GetByTag(ctx context.Context, tag string) (*models.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE tag = $1`, tag))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("asset")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get asset")
	}
	return a, nil
}

// List returns assets matching the filter plus the unfiltered-by-paging total.
func (r *AssetRepository) List(ctx context.Context, filter models.AssetFilter) ([]*models.Asset, int64, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM assets WHERE 1=1`

	var args []interface{}
	argIdx := 1

	if filter.Category != "" {
		clause := fmt.Sprintf(" AND category = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Status != "" {
		clause := fmt.Sprintf(" AND status = $%d", argIdx)
		query += clause
		countQuery += clause
		args = append(args, filter.Status)
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
		clause := fmt.Sprintf(" AND (tag ILIKE $%d OR name ILIKE $%d OR serial_number ILIKE $%d)", argIdx, argIdx, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count assets")
	}

	query += " ORDER BY tag ASC"
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
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list assets")
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan asset")
		}
		assets = append(assets, a)
	}
	return assets, total, rows.Err()
}

// ListByIDs returns the assets with the given IDs, in tag order.
func (r *AssetRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ANY($1) ORDER BY tag ASC`, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list assets")
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan asset")
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Update applies non-nil fields from the input.
func (r *AssetRepository) Update(ctx context.Context, id uuid.UUID, input *models.UpdateAssetInput) error {
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
	if input.Category != nil {
		add("category", *input.Category)
	}
	if input.Location != nil {
		add("location", *input.Location)
	}
	if input.SerialNumber != nil {
		add("serial_number", *input.SerialNumber)
	}
	if input.Status != nil {
		add("status", *input.Status)
	}
	if input.PurchaseDate != nil {
		add("purchase_date", *input.PurchaseDate)
	}
	if input.Notes != nil {
		add("notes", *input.Notes)
	}

	args = append(args, id)
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE assets SET %s WHERE id = $%d`, set, argIdx), args...)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("asset")
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update asset")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("asset")
	}
	return nil
}

// Delete deletes an asset. Linked rows cascade.
func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete asset")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("asset")
	}
	return nil
}

// Categories returns the distinct non-empty asset categories.
func (r *AssetRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM assets WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
