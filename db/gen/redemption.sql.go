// Query code for db/queries in the layout of sqlc's pgx/v5 output.
// Keep it in step with the .sql files, or rerun `sqlc generate` (sqlc.yaml).
// source: redemption.sql

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getRedemption = `-- name: GetRedemption :one
SELECT id, promo_code_id, user_id, asset_id, asset_type, redeemed_at
FROM promo_redemptions
WHERE promo_code_id = $1 AND user_id = $2
`

type GetRedemptionParams struct {
	PromoCodeID pgtype.Int8 `json:"promo_code_id"`
	UserID      int64       `json:"user_id"`
}

func (q *Queries) GetRedemption(ctx context.Context, arg GetRedemptionParams) (PromoRedemption, error) {
	row := q.db.QueryRow(ctx, getRedemption, arg.PromoCodeID, arg.UserID)
	var i PromoRedemption
	err := row.Scan(
		&i.ID,
		&i.PromoCodeID,
		&i.UserID,
		&i.AssetID,
		&i.AssetType,
		&i.RedeemedAt,
	)
	return i, err
}

const insertActivityLog = `-- name: InsertActivityLog :exec
INSERT INTO activity_logs (user_id, action, detail)
VALUES ($1, $2, $3)
`

type InsertActivityLogParams struct {
	UserID pgtype.Int8 `json:"user_id"`
	Action string      `json:"action"`
	Detail string      `json:"detail"`
}

func (q *Queries) InsertActivityLog(ctx context.Context, arg InsertActivityLogParams) error {
	_, err := q.db.Exec(ctx, insertActivityLog, arg.UserID, arg.Action, arg.Detail)
	return err
}

const insertRedemption = `-- name: InsertRedemption :one
INSERT INTO promo_redemptions (promo_code_id, user_id, asset_id, asset_type)
VALUES ($1, $2, $3, $4)
ON CONFLICT ON CONSTRAINT promo_redemptions_code_user_key DO NOTHING
RETURNING id, promo_code_id, user_id, asset_id, asset_type, redeemed_at
`

type InsertRedemptionParams struct {
	PromoCodeID pgtype.Int8 `json:"promo_code_id"`
	UserID      int64       `json:"user_id"`
	AssetID     int64       `json:"asset_id"`
	AssetType   string      `json:"asset_type"`
}

func (q *Queries) InsertRedemption(ctx context.Context, arg InsertRedemptionParams) (PromoRedemption, error) {
	row := q.db.QueryRow(ctx, insertRedemption,
		arg.PromoCodeID,
		arg.UserID,
		arg.AssetID,
		arg.AssetType,
	)
	var i PromoRedemption
	err := row.Scan(
		&i.ID,
		&i.PromoCodeID,
		&i.UserID,
		&i.AssetID,
		&i.AssetType,
		&i.RedeemedAt,
	)
	return i, err
}

const listRedemptionsByPromo = `-- name: ListRedemptionsByPromo :many
SELECT id, promo_code_id, user_id, asset_id, asset_type, redeemed_at
FROM promo_redemptions
WHERE promo_code_id = $1
ORDER BY redeemed_at
`

func (q *Queries) ListRedemptionsByPromo(ctx context.Context, promoCodeID pgtype.Int8) ([]PromoRedemption, error) {
	rows, err := q.db.Query(ctx, listRedemptionsByPromo, promoCodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PromoRedemption
	for rows.Next() {
		var i PromoRedemption
		if err := rows.Scan(
			&i.ID,
			&i.PromoCodeID,
			&i.UserID,
			&i.AssetID,
			&i.AssetType,
			&i.RedeemedAt,
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
