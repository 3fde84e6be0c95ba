package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/repository"
	"github.com/jackc/pgx/v5"
)

const (
	maxCodeLength    = 64
	defaultListLimit = 50
	maxListLimit     = 100
	maxGenerateCount = 500

	generatedCodeLength = 10
	generateAttempts    = 3
)

type CreatePromoInput struct {
	Code       string
	AssetID    int64
	AssetType  domain.AssetType
	ValidFrom  *time.Time
	ValidUntil *time.Time
	MaxUses    *int
}

type GeneratePromoInput struct {
	Count      int
	Prefix     string
	AssetID    int64
	AssetType  domain.AssetType
	ValidUntil *time.Time
}

// PromoPatch carries the admin-editable fields. Nil pointers leave a field
// unchanged; the Clear flags reset the nullable ones to unbounded.
type PromoPatch struct {
	IsActive        *bool
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	ClearValidUntil bool
	MaxUses         *int
	ClearMaxUses    bool
}

func (s *PromoService) CreatePromo(ctx context.Context, in CreatePromoInput) (*domain.PromoCode, error) {
	code := domain.NormalizeCode(in.Code)
	if code == "" || len(code) > maxCodeLength {
		return nil, fmt.Errorf("%w: code must be 1-%d characters", domain.ErrInvalidInput, maxCodeLength)
	}
	if !in.AssetType.Valid() || in.AssetID <= 0 {
		return nil, fmt.Errorf("%w: unknown asset", domain.ErrInvalidInput)
	}

	validFrom := s.now()
	if in.ValidFrom != nil {
		validFrom = *in.ValidFrom
	}
	if err := checkLimits(validFrom, in.ValidUntil, in.MaxUses, 0); err != nil {
		return nil, err
	}

	exists, err := s.store.AssetExists(ctx, db.AssetExistsParams{
		AssetID:   in.AssetID,
		AssetType: string(in.AssetType),
	})
	if err != nil {
		return nil, fmt.Errorf("check asset: %w", err)
	}
	if !exists {
		return nil, domain.ErrAssetNotFound
	}

	row, err := s.store.CreatePromoCode(ctx, db.CreatePromoCodeParams{
		Code:         code,
		DiscountType: string(domain.DiscountFreeAsset),
		AssetID:      in.AssetID,
		AssetType:    string(in.AssetType),
		ValidFrom:    pgTime(&validFrom),
		ValidUntil:   pgTime(in.ValidUntil),
		MaxUses:      pgInt4(in.MaxUses),
		IsActive:     true,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicatePromo
		}
		return nil, fmt.Errorf("create promo code: %w", err)
	}
	return toPromo(row), nil
}

// GeneratePromos creates count single-use codes for one asset.
func (s *PromoService) GeneratePromos(ctx context.Context, in GeneratePromoInput) ([]*domain.PromoCode, error) {
	if in.Count <= 0 || in.Count > maxGenerateCount {
		return nil, fmt.Errorf("%w: count must be 1-%d", domain.ErrInvalidInput, maxGenerateCount)
	}

	single := 1
	promos := make([]*domain.PromoCode, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		var promo *domain.PromoCode
		for attempt := 0; attempt < generateAttempts; attempt++ {
			code, err := generatePromoCode(generatedCodeLength)
			if err != nil {
				return promos, fmt.Errorf("generate promo code: %w", err)
			}
			promo, err = s.CreatePromo(ctx, CreatePromoInput{
				Code:       in.Prefix + code,
				AssetID:    in.AssetID,
				AssetType:  in.AssetType,
				ValidUntil: in.ValidUntil,
				MaxUses:    &single,
			})
			if errors.Is(err, domain.ErrDuplicatePromo) {
				continue
			}
			if err != nil {
				return promos, err
			}
			break
		}
		if promo == nil {
			return promos, fmt.Errorf("generate promo code: %w", domain.ErrDuplicatePromo)
		}
		promos = append(promos, promo)
	}
	return promos, nil
}

func (s *PromoService) ListPromos(ctx context.Context, limit, offset int) ([]*domain.PromoCode, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset > math.MaxInt32 {
		offset = math.MaxInt32
	}

	rows, err := s.store.ListPromoCodes(ctx, db.ListPromoCodesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}

	promos := make([]*domain.PromoCode, 0, len(rows))
	for _, row := range rows {
		promos = append(promos, toPromo(row))
	}
	return promos, nil
}

func (s *PromoService) GetPromo(ctx context.Context, id int64) (*domain.PromoDetails, error) {
	row, err := s.store.GetPromoCodeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}

	rows, err := s.store.ListRedemptionsByPromo(ctx, pgInt8(id))
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}

	redemptions := make([]domain.PromoRedemption, 0, len(rows))
	for _, r := range rows {
		redemptions = append(redemptions, toRedemption(r))
	}
	return &domain.PromoDetails{Promo: toPromo(row), Redemptions: redemptions}, nil
}

func (s *PromoService) UpdatePromo(ctx context.Context, id int64, patch PromoPatch) (*domain.PromoCode, error) {
	row, err := s.store.GetPromoCodeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	current := toPromo(row)

	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if patch.ValidFrom != nil {
		current.ValidFrom = *patch.ValidFrom
	}
	switch {
	case patch.ClearValidUntil:
		current.ValidUntil = nil
	case patch.ValidUntil != nil:
		current.ValidUntil = patch.ValidUntil
	}
	switch {
	case patch.ClearMaxUses:
		current.MaxUses = nil
	case patch.MaxUses != nil:
		current.MaxUses = patch.MaxUses
	}

	if err := checkLimits(current.ValidFrom, current.ValidUntil, current.MaxUses, current.UsesCount); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdatePromoCode(ctx, db.UpdatePromoCodeParams{
		ID:         id,
		IsActive:   current.IsActive,
		ValidFrom:  pgTime(&current.ValidFrom),
		ValidUntil: pgTime(current.ValidUntil),
		MaxUses:    pgInt4(current.MaxUses),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("update promo code: %w", err)
	}
	return toPromo(updated), nil
}

func (s *PromoService) DeactivatePromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	row, err := s.store.GetPromoCodeByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	inactive := false
	return s.UpdatePromo(ctx, row.ID, PromoPatch{IsActive: &inactive})
}

// DeletePromo hard-deletes a code. Redemptions and purchases stay; their
// promo link is nulled by the foreign key.
func (s *PromoService) DeletePromo(ctx context.Context, id int64) error {
	n, err := s.store.DeletePromoCode(ctx, id)
	if err != nil {
		return fmt.Errorf("delete promo code: %w", err)
	}
	if n == 0 {
		return domain.ErrPromoNotFound
	}
	return nil
}

func checkLimits(validFrom time.Time, validUntil *time.Time, maxUses *int, usesCount int) error {
	if validUntil != nil && !validUntil.After(validFrom) {
		return fmt.Errorf("%w: validUntil must be after validFrom", domain.ErrInvalidInput)
	}
	if maxUses != nil {
		if *maxUses <= 0 {
			return fmt.Errorf("%w: maxUses must be positive", domain.ErrInvalidInput)
		}
		if *maxUses > math.MaxInt32 {
			return fmt.Errorf("%w: maxUses must be at most %d", domain.ErrInvalidInput, math.MaxInt32)
		}
		if *maxUses < usesCount {
			return fmt.Errorf("%w: maxUses below current uses (%d)", domain.ErrInvalidInput, usesCount)
		}
	}
	return nil
}

const promoCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generatePromoCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(promoCodeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = promoCodeCharset[n.Int64()]
	}
	return string(code), nil
}
