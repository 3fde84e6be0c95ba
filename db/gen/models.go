// Query code for db/queries in the layout of sqlc's pgx/v5 output.
// Keep it in step with the .sql files, or rerun `sqlc generate` (sqlc.yaml).

package db

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type ActivityLog struct {
	ID        int64              `json:"id"`
	UserID    pgtype.Int8        `json:"user_id"`
	Action    string             `json:"action"`
	Detail    string             `json:"detail"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Beat struct {
	ID         int64              `json:"id"`
	Title      string             `json:"title"`
	Producer   string             `json:"producer"`
	Bpm        int32              `json:"bpm"`
	Price      decimal.Decimal    `json:"price"`
	AudioKey   string             `json:"audio_key"`
	PreviewKey string             `json:"preview_key"`
	CoverKey   string             `json:"cover_key"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type BeatPack struct {
	ID         int64              `json:"id"`
	Title      string             `json:"title"`
	Price      decimal.Decimal    `json:"price"`
	ArchiveKey string             `json:"archive_key"`
	CoverKey   string             `json:"cover_key"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type PromoCode struct {
	ID           int64              `json:"id"`
	Code         string             `json:"code"`
	DiscountType string             `json:"discount_type"`
	AssetID      int64              `json:"asset_id"`
	AssetType    string             `json:"asset_type"`
	ValidFrom    pgtype.Timestamptz `json:"valid_from"`
	ValidUntil   pgtype.Timestamptz `json:"valid_until"`
	MaxUses      pgtype.Int4        `json:"max_uses"`
	UsesCount    int32              `json:"uses_count"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type PromoRedemption struct {
	ID          int64              `json:"id"`
	PromoCodeID pgtype.Int8        `json:"promo_code_id"`
	UserID      int64              `json:"user_id"`
	AssetID     int64              `json:"asset_id"`
	AssetType   string             `json:"asset_type"`
	RedeemedAt  pgtype.Timestamptz `json:"redeemed_at"`
}

type Purchase struct {
	ID                int64              `json:"id"`
	UserID            int64              `json:"user_id"`
	AssetID           int64              `json:"asset_id"`
	AssetType         string             `json:"asset_type"`
	Amount            decimal.Decimal    `json:"amount"`
	Status            string             `json:"status"`
	Source            string             `json:"source"`
	PromoRedemptionID pgtype.Int8        `json:"promo_redemption_id"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}
