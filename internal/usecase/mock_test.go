package usecase

import (
	"context"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type mockStore struct {
	execTxFn                  func(ctx context.Context, fn func(repository.Querier) error) error
	getPromoCodeByCodeFn      func(ctx context.Context, code string) (db.PromoCode, error)
	getPromoCodeByIDFn        func(ctx context.Context, id int64) (db.PromoCode, error)
	createPromoCodeFn         func(ctx context.Context, arg db.CreatePromoCodeParams) (db.PromoCode, error)
	updatePromoCodeFn         func(ctx context.Context, arg db.UpdatePromoCodeParams) (db.PromoCode, error)
	deletePromoCodeFn         func(ctx context.Context, id int64) (int64, error)
	listPromoCodesFn          func(ctx context.Context, arg db.ListPromoCodesParams) ([]db.PromoCode, error)
	getRedemptionFn           func(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error)
	listRedemptionsByPromoFn  func(ctx context.Context, promoCodeID pgtype.Int8) ([]db.PromoRedemption, error)
	getPurchaseByRedemptionFn func(ctx context.Context, id pgtype.Int8) (db.Purchase, error)
	assetExistsFn             func(ctx context.Context, arg db.AssetExistsParams) (bool, error)
	insertRedemptionFn        func(ctx context.Context, arg db.InsertRedemptionParams) (db.PromoRedemption, error)
	incrementPromoUsesFn      func(ctx context.Context, id int64) (db.PromoCode, error)
	createPurchaseFn          func(ctx context.Context, arg db.CreatePurchaseParams) (db.Purchase, error)
	insertActivityLogFn       func(ctx context.Context, arg db.InsertActivityLogParams) error

	listBeatsFn            func(ctx context.Context) ([]db.Beat, error)
	getBeatFn              func(ctx context.Context, id int64) (db.Beat, error)
	listBeatPacksFn        func(ctx context.Context) ([]db.BeatPack, error)
	getBeatPackFn          func(ctx context.Context, id int64) (db.BeatPack, error)
	getAssetByObjectKeyFn  func(ctx context.Context, key string) (db.GetAssetByObjectKeyRow, error)
	listPurchasesByUserFn  func(ctx context.Context, userID int64) ([]db.Purchase, error)
	hasCompletedPurchaseFn func(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error)
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	if m.execTxFn != nil {
		return m.execTxFn(ctx, fn)
	}
	return fn(m)
}

func (m *mockStore) GetPromoCodeByCode(ctx context.Context, code string) (db.PromoCode, error) {
	if m.getPromoCodeByCodeFn != nil {
		return m.getPromoCodeByCodeFn(ctx, code)
	}
	return db.PromoCode{}, pgx.ErrNoRows
}

func (m *mockStore) GetPromoCodeByID(ctx context.Context, id int64) (db.PromoCode, error) {
	if m.getPromoCodeByIDFn != nil {
		return m.getPromoCodeByIDFn(ctx, id)
	}
	return db.PromoCode{}, pgx.ErrNoRows
}

func (m *mockStore) CreatePromoCode(ctx context.Context, arg db.CreatePromoCodeParams) (db.PromoCode, error) {
	if m.createPromoCodeFn != nil {
		return m.createPromoCodeFn(ctx, arg)
	}
	return db.PromoCode{
		ID:           1,
		Code:         arg.Code,
		DiscountType: arg.DiscountType,
		AssetID:      arg.AssetID,
		AssetType:    arg.AssetType,
		ValidFrom:    arg.ValidFrom,
		ValidUntil:   arg.ValidUntil,
		MaxUses:      arg.MaxUses,
		IsActive:     arg.IsActive,
	}, nil
}

func (m *mockStore) UpdatePromoCode(ctx context.Context, arg db.UpdatePromoCodeParams) (db.PromoCode, error) {
	if m.updatePromoCodeFn != nil {
		return m.updatePromoCodeFn(ctx, arg)
	}
	return db.PromoCode{ID: arg.ID, IsActive: arg.IsActive, ValidFrom: arg.ValidFrom, ValidUntil: arg.ValidUntil, MaxUses: arg.MaxUses}, nil
}

func (m *mockStore) DeletePromoCode(ctx context.Context, id int64) (int64, error) {
	if m.deletePromoCodeFn != nil {
		return m.deletePromoCodeFn(ctx, id)
	}
	return 1, nil
}

func (m *mockStore) ListPromoCodes(ctx context.Context, arg db.ListPromoCodesParams) ([]db.PromoCode, error) {
	if m.listPromoCodesFn != nil {
		return m.listPromoCodesFn(ctx, arg)
	}
	return nil, nil
}

func (m *mockStore) GetRedemption(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error) {
	if m.getRedemptionFn != nil {
		return m.getRedemptionFn(ctx, arg)
	}
	return db.PromoRedemption{}, pgx.ErrNoRows
}

func (m *mockStore) ListRedemptionsByPromo(ctx context.Context, promoCodeID pgtype.Int8) ([]db.PromoRedemption, error) {
	if m.listRedemptionsByPromoFn != nil {
		return m.listRedemptionsByPromoFn(ctx, promoCodeID)
	}
	return nil, nil
}

func (m *mockStore) GetPurchaseByRedemption(ctx context.Context, id pgtype.Int8) (db.Purchase, error) {
	if m.getPurchaseByRedemptionFn != nil {
		return m.getPurchaseByRedemptionFn(ctx, id)
	}
	return db.Purchase{}, pgx.ErrNoRows
}

func (m *mockStore) AssetExists(ctx context.Context, arg db.AssetExistsParams) (bool, error) {
	if m.assetExistsFn != nil {
		return m.assetExistsFn(ctx, arg)
	}
	return true, nil
}

func (m *mockStore) InsertRedemption(ctx context.Context, arg db.InsertRedemptionParams) (db.PromoRedemption, error) {
	if m.insertRedemptionFn != nil {
		return m.insertRedemptionFn(ctx, arg)
	}
	return db.PromoRedemption{
		ID:          1,
		PromoCodeID: arg.PromoCodeID,
		UserID:      arg.UserID,
		AssetID:     arg.AssetID,
		AssetType:   arg.AssetType,
	}, nil
}

func (m *mockStore) IncrementPromoUses(ctx context.Context, id int64) (db.PromoCode, error) {
	if m.incrementPromoUsesFn != nil {
		return m.incrementPromoUsesFn(ctx, id)
	}
	return db.PromoCode{ID: id}, nil
}

func (m *mockStore) CreatePurchase(ctx context.Context, arg db.CreatePurchaseParams) (db.Purchase, error) {
	if m.createPurchaseFn != nil {
		return m.createPurchaseFn(ctx, arg)
	}
	return db.Purchase{ID: 1, UserID: arg.UserID, AssetID: arg.AssetID, AssetType: arg.AssetType}, nil
}

func (m *mockStore) InsertActivityLog(ctx context.Context, arg db.InsertActivityLogParams) error {
	if m.insertActivityLogFn != nil {
		return m.insertActivityLogFn(ctx, arg)
	}
	return nil
}

func (m *mockStore) ListBeats(ctx context.Context) ([]db.Beat, error) {
	if m.listBeatsFn != nil {
		return m.listBeatsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetBeat(ctx context.Context, id int64) (db.Beat, error) {
	if m.getBeatFn != nil {
		return m.getBeatFn(ctx, id)
	}
	return db.Beat{}, pgx.ErrNoRows
}

func (m *mockStore) ListBeatPacks(ctx context.Context) ([]db.BeatPack, error) {
	if m.listBeatPacksFn != nil {
		return m.listBeatPacksFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetBeatPack(ctx context.Context, id int64) (db.BeatPack, error) {
	if m.getBeatPackFn != nil {
		return m.getBeatPackFn(ctx, id)
	}
	return db.BeatPack{}, pgx.ErrNoRows
}

func (m *mockStore) GetAssetByObjectKey(ctx context.Context, key string) (db.GetAssetByObjectKeyRow, error) {
	if m.getAssetByObjectKeyFn != nil {
		return m.getAssetByObjectKeyFn(ctx, key)
	}
	return db.GetAssetByObjectKeyRow{}, pgx.ErrNoRows
}

func (m *mockStore) ListPurchasesByUser(ctx context.Context, userID int64) ([]db.Purchase, error) {
	if m.listPurchasesByUserFn != nil {
		return m.listPurchasesByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) HasCompletedPurchase(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error) {
	if m.hasCompletedPurchaseFn != nil {
		return m.hasCompletedPurchaseFn(ctx, arg)
	}
	return false, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func activePromo(code string) db.PromoCode {
	return db.PromoCode{
		ID:           10,
		Code:         code,
		DiscountType: "free_asset",
		AssetID:      42,
		AssetType:    "beat",
		ValidFrom:    ts(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		IsActive:     true,
	}
}
