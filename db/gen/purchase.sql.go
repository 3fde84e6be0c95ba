// Query code for db/queries in the layout of sqlc's pgx/v5 output.
// Keep it in step with the .sql files, or rerun `sqlc generate` (sqlc.yaml).
// source: purchase.sql

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const createPurchase = `-- name: CreatePurchase :one
INSERT INTO purchases (user_id, asset_id, asset_type, amount, status, source, promo_redemption_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, asset_id, asset_type, amount, status, source, promo_redemption_id, created_at
`

type CreatePurchaseParams struct {
	UserID            int64           `json:"user_id"`
	AssetID           int64           `json:"asset_id"`
	AssetType         string          `json:"asset_type"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	Source            string          `json:"source"`
	PromoRedemptionID pgtype.Int8     `json:"promo_redemption_id"`
}

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (Purchase, error) {
	row := q.db.QueryRow(ctx, createPurchase,
		arg.UserID,
		arg.AssetID,
		arg.AssetType,
		arg.Amount,
		arg.Status,
		arg.Source,
		arg.PromoRedemptionID,
	)
	var i Purchase
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AssetID,
		&i.AssetType,
		&i.Amount,
		&i.Status,
		&i.Source,
		&i.PromoRedemptionID,
		&i.CreatedAt,
	)
	return i, err
}

const getPurchaseByRedemption = `-- name: GetPurchaseByRedemption :one
SELECT id, user_id, asset_id, asset_type, amount, status, source, promo_redemption_id, created_at
FROM purchases
WHERE promo_redemption_id = $1
`

func (q *Queries) GetPurchaseByRedemption(ctx context.Context, promoRedemptionID pgtype.Int8) (Purchase, error) {
	row := q.db.QueryRow(ctx, getPurchaseByRedemption, promoRedemptionID)
	var i Purchase
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AssetID,
		&i.AssetType,
		&i.Amount,
		&i.Status,
		&i.Source,
		&i.PromoRedemptionID,
		&i.CreatedAt,
	)
	return i, err
}

const hasCompletedPurchase = `-- name: HasCompletedPurchase :one
SELECT EXISTS (
    SELECT 1 FROM purchases
    WHERE user_id = $1 AND asset_id = $2 AND asset_type = $3 AND status = 'completed'
)
`

type HasCompletedPurchaseParams struct {
	UserID    int64  `json:"user_id"`
	AssetID   int64  `json:"asset_id"`
	AssetType string `json:"asset_type"`
}

func (q *Queries) HasCompletedPurchase(ctx context.Context, arg HasCompletedPurchaseParams) (bool, error) {
	row := q.db.QueryRow(ctx, hasCompletedPurchase, arg.UserID, arg.AssetID, arg.AssetType)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listPurchasesByUser = `-- name: ListPurchasesByUser :many
SELECT id, user_id, asset_id, asset_type, amount, status, source, promo_redemption_id, created_at
FROM purchases
WHERE user_id = $1 AND status = 'completed'
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListPurchasesByUser(ctx context.Context, userID int64) ([]Purchase, error) {
	rows, err := q.db.Query(ctx, listPurchasesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Purchase
	for rows.Next() {
		var i Purchase
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.AssetID,
			&i.AssetType,
			&i.Amount,
			&i.Status,
			&i.Source,
			&i.PromoRedemptionID,
			&i.CreatedAt,
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
