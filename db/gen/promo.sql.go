// Query code for db/queries in the layout of sqlc's pgx/v5 output.
// Keep it in step with the .sql files, or rerun `sqlc generate` (sqlc.yaml).
// source: promo.sql

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPromoCode = `-- name: CreatePromoCode :one
INSERT INTO promo_codes (code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
`

type CreatePromoCodeParams struct {
	Code         string             `json:"code"`
	DiscountType string             `json:"discount_type"`
	AssetID      int64              `json:"asset_id"`
	AssetType    string             `json:"asset_type"`
	ValidFrom    pgtype.Timestamptz `json:"valid_from"`
	ValidUntil   pgtype.Timestamptz `json:"valid_until"`
	MaxUses      pgtype.Int4        `json:"max_uses"`
	IsActive     bool               `json:"is_active"`
}

func (q *Queries) CreatePromoCode(ctx context.Context, arg CreatePromoCodeParams) (PromoCode, error) {
	row := q.db.QueryRow(ctx, createPromoCode,
		arg.Code,
		arg.DiscountType,
		arg.AssetID,
		arg.AssetType,
		arg.ValidFrom,
		arg.ValidUntil,
		arg.MaxUses,
		arg.IsActive,
	)
	var i PromoCode
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.AssetID,
		&i.AssetType,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.MaxUses,
		&i.UsesCount,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deletePromoCode = `-- name: DeletePromoCode :execrows
DELETE FROM promo_codes WHERE id = $1
`

func (q *Queries) DeletePromoCode(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deletePromoCode, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getPromoCodeByCode = `-- name: GetPromoCodeByCode :one
SELECT id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
FROM promo_codes
WHERE code = $1
`

func (q *Queries) GetPromoCodeByCode(ctx context.Context, code string) (PromoCode, error) {
	row := q.db.QueryRow(ctx, getPromoCodeByCode, code)
	var i PromoCode
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.AssetID,
		&i.AssetType,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.MaxUses,
		&i.UsesCount,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPromoCodeByID = `-- name: GetPromoCodeByID :one
SELECT id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
FROM promo_codes
WHERE id = $1
`

func (q *Queries) GetPromoCodeByID(ctx context.Context, id int64) (PromoCode, error) {
	row := q.db.QueryRow(ctx, getPromoCodeByID, id)
	var i PromoCode
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.AssetID,
		&i.AssetType,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.MaxUses,
		&i.UsesCount,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const incrementPromoUses = `-- name: IncrementPromoUses :one
UPDATE promo_codes
SET uses_count = uses_count + 1, updated_at = NOW()
WHERE id = $1 AND (max_uses IS NULL OR uses_count < max_uses)
RETURNING id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
`

func (q *Queries) IncrementPromoUses(ctx context.Context, id int64) (PromoCode, error) {
	row := q.db.QueryRow(ctx, incrementPromoUses, id)
	var i PromoCode
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.AssetID,
		&i.AssetType,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.MaxUses,
		&i.UsesCount,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPromoCodes = `-- name: ListPromoCodes :many
SELECT id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
FROM promo_codes
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

type ListPromoCodesParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListPromoCodes(ctx context.Context, arg ListPromoCodesParams) ([]PromoCode, error) {
	rows, err := q.db.Query(ctx, listPromoCodes, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PromoCode
	for rows.Next() {
		var i PromoCode
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.DiscountType,
			&i.AssetID,
			&i.AssetType,
			&i.ValidFrom,
			&i.ValidUntil,
			&i.MaxUses,
			&i.UsesCount,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePromoCode = `-- name: UpdatePromoCode :one
UPDATE promo_codes
SET is_active = $2, valid_from = $3, valid_until = $4, max_uses = $5, updated_at = NOW()
WHERE id = $1
RETURNING id, code, discount_type, asset_id, asset_type, valid_from, valid_until, max_uses, uses_count, is_active, created_at, updated_at
`

type UpdatePromoCodeParams struct {
	ID         int64              `json:"id"`
	IsActive   bool               `json:"is_active"`
	ValidFrom  pgtype.Timestamptz `json:"valid_from"`
	ValidUntil pgtype.Timestamptz `json:"valid_until"`
	MaxUses    pgtype.Int4        `json:"max_uses"`
}

func (q *Queries) UpdatePromoCode(ctx context.Context, arg UpdatePromoCodeParams) (PromoCode, error) {
	row := q.db.QueryRow(ctx, updatePromoCode,
		arg.ID,
		arg.IsActive,
		arg.ValidFrom,
		arg.ValidUntil,
		arg.MaxUses,
	)
	var i PromoCode
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.AssetID,
		&i.AssetType,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.MaxUses,
		&i.UsesCount,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
