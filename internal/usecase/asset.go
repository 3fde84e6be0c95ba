package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azizikri/beat-market/internal/cache"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/storage"
)

// signedURLMargin is how long before expiry a cached signed URL stops being handed out.
const signedURLMargin = time.Minute

type AssetService struct {
	catalog  *CatalogService
	resolver *storage.Resolver
	signer   *storage.Signer
	backend  storage.Backend
	cache    cache.Cache
	now      func() time.Time
}

func NewAssetService(catalog *CatalogService, resolver *storage.Resolver, signer *storage.Signer, backend storage.Backend, c cache.Cache) *AssetService {
	if c == nil {
		c = cache.Noop{}
	}
	return &AssetService{
		catalog:  catalog,
		resolver: resolver,
		signer:   signer,
		backend:  backend,
		cache:    c,
		now:      time.Now,
	}
}

// Download returns a signed URL for the full file of an asset the caller owns.
func (s *AssetService) Download(ctx context.Context, p domain.Principal, assetType domain.AssetType, assetID int64) (*domain.SignedURL, error) {
	if !assetType.Valid() {
		return nil, domain.ErrAssetNotFound
	}
	if err := s.authorize(ctx, p, assetType, assetID); err != nil {
		return nil, err
	}

	var bucket, key string
	switch assetType {
	case domain.AssetBeat:
		beat, err := s.catalog.GetBeat(ctx, assetID)
		if err != nil {
			return nil, err
		}
		bucket, key = storage.BucketAudio, beat.AudioKey
	case domain.AssetBeatPack:
		pack, err := s.catalog.GetPack(ctx, assetID)
		if err != nil {
			return nil, err
		}
		bucket, key = storage.BucketPacks, pack.ArchiveKey
	}

	loc, err := s.resolver.Locate(bucket, key)
	if err != nil {
		return nil, err
	}
	return s.Sign(ctx, loc)
}

// Resolve maps a logical file path to a location the caller may read.
// Private objects require owning the beat or pack stored under the key.
func (s *AssetService) Resolve(ctx context.Context, p domain.Principal, logicalPath string) (storage.Location, error) {
	loc, err := s.resolver.Resolve(logicalPath)
	if err != nil {
		return storage.Location{}, err
	}
	if loc.Bucket.Public {
		return loc, nil
	}

	assetType, assetID, err := s.catalog.AssetForObject(ctx, loc.Key)
	if err != nil {
		return storage.Location{}, err
	}
	if bucketFor(assetType) != loc.Bucket.Name {
		return storage.Location{}, domain.ErrObjectNotFound
	}
	if err := s.authorize(ctx, p, assetType, assetID); err != nil {
		return storage.Location{}, err
	}
	return loc, nil
}

func (s *AssetService) Sign(ctx context.Context, loc storage.Location) (*domain.SignedURL, error) {
	key := cache.KeySigned + loc.Bucket.Name + "/" + loc.Key

	var signed domain.SignedURL
	hit, err := s.cache.Get(ctx, key, &signed)
	if err != nil {
		slog.Warn("cache get failed", "key", key, "error", err)
	}
	if hit && signed.ExpiresAt.After(s.now().Add(signedURLMargin)) {
		return &signed, nil
	}

	signed = s.signer.Sign(loc)
	if err := s.cache.Set(ctx, key, signed, s.signer.TTL()-signedURLMargin); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
	return &signed, nil
}

func (s *AssetService) Open(ctx context.Context, loc storage.Location) (*storage.Object, error) {
	return s.backend.Open(ctx, loc)
}

// OpenSigned serves a signed URL without a session.
func (s *AssetService) OpenSigned(ctx context.Context, bucket, key, expires, sig string) (*storage.Object, storage.Location, error) {
	if err := s.signer.Verify(bucket, key, expires, sig); err != nil {
		return nil, storage.Location{}, err
	}
	loc, err := s.resolver.Locate(bucket, key)
	if err != nil {
		return nil, storage.Location{}, err
	}
	obj, err := s.backend.Open(ctx, loc)
	if err != nil {
		return nil, storage.Location{}, err
	}
	return obj, loc, nil
}

func (s *AssetService) authorize(ctx context.Context, p domain.Principal, assetType domain.AssetType, assetID int64) error {
	if p.IsAdmin {
		return nil
	}
	owned, err := s.catalog.Owns(ctx, p.UserID, assetType, assetID)
	if err != nil {
		return fmt.Errorf("authorize asset: %w", err)
	}
	if !owned {
		return domain.ErrNotOwned
	}
	return nil
}

func bucketFor(assetType domain.AssetType) string {
	if assetType == domain.AssetBeatPack {
		return storage.BucketPacks
	}
	return storage.BucketAudio
}
