package repository

import (
	"context"
	"errors"
	"fmt"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	ExecTx(ctx context.Context, fn func(Querier) error) error
	Ping(ctx context.Context) error

	CreatePromoCode(ctx context.Context, arg db.CreatePromoCodeParams) (db.PromoCode, error)
	DeletePromoCode(ctx context.Context, id int64) (int64, error)
	GetPromoCodeByCode(ctx context.Context, code string) (db.PromoCode, error)
	GetPromoCodeByID(ctx context.Context, id int64) (db.PromoCode, error)
	ListPromoCodes(ctx context.Context, arg db.ListPromoCodesParams) ([]db.PromoCode, error)
	UpdatePromoCode(ctx context.Context, arg db.UpdatePromoCodeParams) (db.PromoCode, error)
	GetRedemption(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error)
	ListRedemptionsByPromo(ctx context.Context, promoCodeID pgtype.Int8) ([]db.PromoRedemption, error)
	GetPurchaseByRedemption(ctx context.Context, promoRedemptionID pgtype.Int8) (db.Purchase, error)

	HasCompletedPurchase(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error)
	ListPurchasesByUser(ctx context.Context, userID int64) ([]db.Purchase, error)

	AssetExists(ctx context.Context, arg db.AssetExistsParams) (bool, error)
	GetAssetByObjectKey(ctx context.Context, objectKey string) (db.GetAssetByObjectKeyRow, error)
	GetBeat(ctx context.Context, id int64) (db.Beat, error)
	GetBeatPack(ctx context.Context, id int64) (db.BeatPack, error)
	ListBeats(ctx context.Context) ([]db.Beat, error)
	ListBeatPacks(ctx context.Context) ([]db.BeatPack, error)
}

// Querier is the subset of queries that runs inside a redemption transaction.
type Querier interface {
	InsertRedemption(ctx context.Context, arg db.InsertRedemptionParams) (db.PromoRedemption, error)
	GetRedemption(ctx context.Context, arg db.GetRedemptionParams) (db.PromoRedemption, error)
	IncrementPromoUses(ctx context.Context, id int64) (db.PromoCode, error)
	CreatePurchase(ctx context.Context, arg db.CreatePurchaseParams) (db.Purchase, error)
	GetPurchaseByRedemption(ctx context.Context, promoRedemptionID pgtype.Int8) (db.Purchase, error)
	InsertActivityLog(ctx context.Context, arg db.InsertActivityLogParams) error
}

type store struct {
	*db.Queries
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		Queries: db.New(pool),
		pool:    pool,
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := s.Queries.WithTx(tx)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
