package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const activityPromoRedeemed = "promo.redeemed"

type PromoStore interface {
	ExecTx(ctx context.Context, fn func(repository.Querier) error) error
	GetPromoCodeByCode(ctx context.Context, code string) (db.PromoCode, error)
	GetPromoCodeByID(ctx context.Context, id int64) (db.PromoCode, error)
	CreatePromoCode(ctx context.Context, arg db.CreatePromoCodeParams) (db.PromoCode, error)
	UpdatePromoCode(ctx context.Context, arg db.UpdatePromoCodeParams) (db.PromoCode, error)
	DeletePromoCode(ctx context.Context, id int64) (int64, error)
	ListPromoCodes(ctx context.Context, arg db.ListPromoCodesParams) ([]db.PromoCode, error)
	GetRedemption(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error)
	ListRedemptionsByPromo(ctx context.Context, promoCodeID pgtype.Int8) ([]db.PromoRedemption, error)
	GetPurchaseByRedemption(ctx context.Context, promoRedemptionID pgtype.Int8) (db.Purchase, error)
	AssetExists(ctx context.Context, arg db.AssetExistsParams) (bool, error)
}

// grantReader is satisfied by both the store and a transaction's Querier.
type grantReader interface {
	GetRedemption(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error)
	GetPurchaseByRedemption(ctx context.Context, promoRedemptionID pgtype.Int8) (db.Purchase, error)
}

type PromoService struct {
	store PromoStore
	now   func() time.Time
}

func NewPromoService(store PromoStore) *PromoService {
	return &PromoService{store: store, now: time.Now}
}

// ValidatePromo runs the read-only checks for userID redeeming code. Checks
// run in this order: existence and active flag, prior redemption by the user,
// expiry, start of the validity window, usage cap. A user who already
// redeemed gets their grant back even after the code expires or fills up.
func (s *PromoService) ValidatePromo(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrInvalidPromoCode
	}

	row, err := s.store.GetPromoCodeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidPromoCode
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	if !row.IsActive {
		return nil, domain.ErrInvalidPromoCode
	}
	promo := toPromo(row)

	grant, err := priorGrant(ctx, s.store, promo.ID, userID)
	if err != nil {
		return nil, err
	}
	if grant != nil {
		return &domain.PromoCheck{Promo: promo, AlreadyRedeemed: true, Grant: grant}, nil
	}

	if err := promo.CheckWindow(s.now()); err != nil {
		return nil, err
	}
	return &domain.PromoCheck{Promo: promo}, nil
}

// RedeemPromo grants the promo's asset to userID. Repeating the call returns
// the existing grant. The redemption row, usage increment, purchase row and
// activity log commit together or not at all.
func (s *PromoService) RedeemPromo(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
	check, err := s.ValidatePromo(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if check.AlreadyRedeemed {
		return check.Grant, nil
	}
	promo := check.Promo

	var grant *domain.Grant
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		redemption, err := q.InsertRedemption(ctx, db.InsertRedemptionParams{
			PromoCodeID: pgInt8(promo.ID),
			UserID:      userID,
			AssetID:     promo.AssetID,
			AssetType:   string(promo.AssetType),
		})
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("insert redemption: %w", err)
			}
			// Conflict on (promo_code_id, user_id): a concurrent request won.
			existing, err := priorGrant(ctx, q, promo.ID, userID)
			if err != nil {
				return err
			}
			if existing == nil {
				return errors.New("redemption conflict but no existing redemption")
			}
			grant = existing
			return nil
		}

		if _, err := q.IncrementPromoUses(ctx, promo.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrPromoUsageLimit
			}
			return fmt.Errorf("increment promo uses: %w", err)
		}

		purchase, err := q.CreatePurchase(ctx, db.CreatePurchaseParams{
			UserID:            userID,
			AssetID:           promo.AssetID,
			AssetType:         string(promo.AssetType),
			Amount:            decimal.Zero,
			Status:            string(domain.PurchaseCompleted),
			Source:            domain.PurchaseSourcePromo,
			PromoRedemptionID: pgInt8(redemption.ID),
		})
		if err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		if err := q.InsertActivityLog(ctx, db.InsertActivityLogParams{
			UserID: pgInt8(userID),
			Action: activityPromoRedeemed,
			Detail: fmt.Sprintf("code=%s purchase=%d", promo.Code, purchase.ID),
		}); err != nil {
			return fmt.Errorf("insert activity log: %w", err)
		}

		grant = &domain.Grant{
			PurchaseID: purchase.ID,
			AssetID:    promo.AssetID,
			AssetType:  promo.AssetType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

// priorGrant returns nil, nil when userID has not redeemed the promo.
func priorGrant(ctx context.Context, q grantReader, promoID, userID int64) (*domain.Grant, error) {
	redemption, err := q.GetRedemption(ctx, db.GetRedemptionParams{
		PromoCodeID: pgInt8(promoID),
		UserID:      userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get redemption: %w", err)
	}

	grant := &domain.Grant{
		AssetID:         redemption.AssetID,
		AssetType:       domain.AssetType(redemption.AssetType),
		AlreadyRedeemed: true,
	}

	purchase, err := q.GetPurchaseByRedemption(ctx, pgInt8(redemption.ID))
	switch {
	case err == nil:
		grant.PurchaseID = purchase.ID
	case errors.Is(err, pgx.ErrNoRows):
		// legacy redemption without a purchase row
	default:
		return nil, fmt.Errorf("get purchase for redemption: %w", err)
	}
	return grant, nil
}
