package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/cache"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CatalogStore interface {
	ListBeats(ctx context.Context) ([]db.Beat, error)
	GetBeat(ctx context.Context, id int64) (db.Beat, error)
	ListBeatPacks(ctx context.Context) ([]db.BeatPack, error)
	GetBeatPack(ctx context.Context, id int64) (db.BeatPack, error)
	GetAssetByObjectKey(ctx context.Context, objectKey string) (db.GetAssetByObjectKeyRow, error)
	ListPurchasesByUser(ctx context.Context, userID int64) ([]db.Purchase, error)
	HasCompletedPurchase(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error)
}

type CatalogService struct {
	store CatalogStore
	cache cache.Cache
}

func NewCatalogService(store CatalogStore, c cache.Cache) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{store: store, cache: c}
}

func (s *CatalogService) ListBeats(ctx context.Context) ([]domain.Beat, error) {
	rows, err := cached(ctx, s.cache, cache.KeyBeatList, cache.TTLList, s.store.ListBeats)
	if err != nil {
		return nil, fmt.Errorf("list beats: %w", err)
	}
	beats := make([]domain.Beat, 0, len(rows))
	for _, row := range rows {
		beats = append(beats, toBeat(row))
	}
	return beats, nil
}

func (s *CatalogService) GetBeat(ctx context.Context, id int64) (*domain.Beat, error) {
	row, err := cached(ctx, s.cache, cache.KeyBeat+strconv.FormatInt(id, 10), cache.TTLItem, func(ctx context.Context) (db.Beat, error) {
		return s.store.GetBeat(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("get beat: %w", err)
	}
	beat := toBeat(row)
	return &beat, nil
}

func (s *CatalogService) ListPacks(ctx context.Context) ([]domain.BeatPack, error) {
	rows, err := cached(ctx, s.cache, cache.KeyPackList, cache.TTLList, s.store.ListBeatPacks)
	if err != nil {
		return nil, fmt.Errorf("list beat packs: %w", err)
	}
	packs := make([]domain.BeatPack, 0, len(rows))
	for _, row := range rows {
		packs = append(packs, toPack(row))
	}
	return packs, nil
}

func (s *CatalogService) GetPack(ctx context.Context, id int64) (*domain.BeatPack, error) {
	row, err := cached(ctx, s.cache, cache.KeyPack+strconv.FormatInt(id, 10), cache.TTLItem, func(ctx context.Context) (db.BeatPack, error) {
		return s.store.GetBeatPack(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("get beat pack: %w", err)
	}
	pack := toPack(row)
	return &pack, nil
}

func (s *CatalogService) ListPurchases(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	rows, err := s.store.ListPurchasesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	purchases := make([]domain.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, toPurchase(row))
	}
	return purchases, nil
}

func (s *CatalogService) Owns(ctx context.Context, userID int64, assetType domain.AssetType, assetID int64) (bool, error) {
	owned, err := s.store.HasCompletedPurchase(ctx, db.HasCompletedPurchaseParams{
		UserID:    userID,
		AssetID:   assetID,
		AssetType: string(assetType),
	})
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return owned, nil
}

// AssetForObject finds the beat or pack whose private file is stored under key.
func (s *CatalogService) AssetForObject(ctx context.Context, key string) (domain.AssetType, int64, error) {
	row, err := s.store.GetAssetByObjectKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, domain.ErrObjectNotFound
		}
		return "", 0, fmt.Errorf("get asset by object key: %w", err)
	}
	return domain.AssetType(row.AssetType), row.AssetID, nil
}

// cached reads key from c, falling back to load and storing its result.
// Cache errors are logged and never fail the read.
func cached[T any](ctx context.Context, c cache.Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var value T
	hit, err := c.Get(ctx, key, &value)
	if err != nil {
		slog.Warn("cache get failed", "key", key, "error", err)
	}
	if hit {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
	return value, nil
}
