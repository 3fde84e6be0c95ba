package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/shopspring/decimal"
)

// mapCache round-trips values through JSON like the Redis cache does.
type mapCache struct {
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	c.ttls[key] = ttl
	return nil
}

func TestGetBeat_CachesRow(t *testing.T) {
	loads := 0
	store := &mockStore{
		getBeatFn: func(ctx context.Context, id int64) (db.Beat, error) {
			loads++
			return db.Beat{ID: id, Title: "Night Drive", Price: decimal.RequireFromString("29.99"), AudioKey: "night-drive.wav"}, nil
		},
	}
	svc := NewCatalogService(store, newMapCache())

	for i := 0; i < 2; i++ {
		beat, err := svc.GetBeat(context.Background(), 42)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if beat.AudioKey != "night-drive.wav" {
			t.Fatalf("audio key lost on read %d: %+v", i, beat)
		}
		if !beat.Price.Equal(decimal.RequireFromString("29.99")) {
			t.Fatalf("unexpected price %s", beat.Price)
		}
	}
	if loads != 1 {
		t.Fatalf("expected 1 store load, got %d", loads)
	}
}

func TestGetBeat_NotFound(t *testing.T) {
	svc := NewCatalogService(&mockStore{}, nil)
	if _, err := svc.GetBeat(context.Background(), 1); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
	if _, err := svc.GetPack(context.Background(), 1); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestListPacks_StoreErrorNotCached(t *testing.T) {
	c := newMapCache()
	store := &mockStore{
		listBeatPacksFn: func(ctx context.Context) ([]db.BeatPack, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := NewCatalogService(store, c)

	if _, err := svc.ListPacks(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(c.items) != 0 {
		t.Fatalf("expected nothing cached, got %v", c.items)
	}
}

func TestOwns(t *testing.T) {
	var got db.HasCompletedPurchaseParams
	store := &mockStore{
		hasCompletedPurchaseFn: func(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error) {
			got = arg
			return true, nil
		},
	}

	owned, err := NewCatalogService(store, nil).Owns(context.Background(), 7, domain.AssetBeatPack, 3)
	if err != nil || !owned {
		t.Fatalf("expected owned, got %v, %v", owned, err)
	}
	if got.UserID != 7 || got.AssetID != 3 || got.AssetType != "beat_pack" {
		t.Fatalf("unexpected params %+v", got)
	}
}

func TestAssetForObject_Unknown(t *testing.T) {
	_, _, err := NewCatalogService(&mockStore{}, nil).AssetForObject(context.Background(), "nope.wav")
	if !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
