package usecase

import (
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

func toPromo(row db.PromoCode) *domain.PromoCode {
	p := &domain.PromoCode{
		ID:           row.ID,
		Code:         row.Code,
		DiscountType: domain.DiscountType(row.DiscountType),
		AssetID:      row.AssetID,
		AssetType:    domain.AssetType(row.AssetType),
		ValidFrom:    row.ValidFrom.Time,
		UsesCount:    int(row.UsesCount),
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
	if row.ValidUntil.Valid {
		until := row.ValidUntil.Time
		p.ValidUntil = &until
	}
	if row.MaxUses.Valid {
		maxUses := int(row.MaxUses.Int32)
		p.MaxUses = &maxUses
	}
	return p
}

func toRedemption(row db.PromoRedemption) domain.PromoRedemption {
	r := domain.PromoRedemption{
		ID:         row.ID,
		UserID:     row.UserID,
		AssetID:    row.AssetID,
		AssetType:  domain.AssetType(row.AssetType),
		RedeemedAt: row.RedeemedAt.Time,
	}
	if row.PromoCodeID.Valid {
		id := row.PromoCodeID.Int64
		r.PromoCodeID = &id
	}
	return r
}

func toPurchase(row db.Purchase) domain.Purchase {
	return domain.Purchase{
		ID:        row.ID,
		UserID:    row.UserID,
		AssetID:   row.AssetID,
		AssetType: domain.AssetType(row.AssetType),
		Amount:    row.Amount,
		Status:    domain.PurchaseStatus(row.Status),
		Source:    row.Source,
		CreatedAt: row.CreatedAt.Time,
	}
}

func toBeat(row db.Beat) domain.Beat {
	return domain.Beat{
		ID:         row.ID,
		Title:      row.Title,
		Producer:   row.Producer,
		BPM:        int(row.Bpm),
		Price:      row.Price,
		AudioKey:   row.AudioKey,
		PreviewKey: row.PreviewKey,
		CoverKey:   row.CoverKey,
		CreatedAt:  row.CreatedAt.Time,
	}
}

func toPack(row db.BeatPack) domain.BeatPack {
	return domain.BeatPack{
		ID:         row.ID,
		Title:      row.Title,
		Price:      row.Price,
		ArchiveKey: row.ArchiveKey,
		CoverKey:   row.CoverKey,
		CreatedAt:  row.CreatedAt.Time,
	}
}

func pgTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func pgInt4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

func pgInt8(v int64) pgtype.Int8 {
	return pgtype.Int8{Int64: v, Valid: true}
}
