package usecase

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	db "github.com/azizikri/beat-market/db/gen"
	"github.com/azizikri/beat-market/internal/cache"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/storage"
	"github.com/jackc/pgx/v5"
)

func newTestAssetService(t *testing.T, store *mockStore, c cache.Cache) (*AssetService, string) {
	t.Helper()
	root := t.TempDir()
	catalog := NewCatalogService(store, nil)
	signer := storage.NewSigner("secret", "http://files.test", 15*time.Minute)
	return NewAssetService(catalog, storage.NewResolver(), signer, storage.NewFSBackend(root), c), root
}

func ownsOnly(userID int64, assetType string, assetID int64) func(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error) {
	return func(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error) {
		return arg.UserID == userID && arg.AssetType == assetType && arg.AssetID == assetID, nil
	}
}

func TestDownload_Owned(t *testing.T) {
	store := &mockStore{
		hasCompletedPurchaseFn: ownsOnly(7, "beat", 42),
		getBeatFn: func(ctx context.Context, id int64) (db.Beat, error) {
			return db.Beat{ID: id, AudioKey: "night drive.wav"}, nil
		},
	}
	svc, _ := newTestAssetService(t, store, nil)

	signed, err := svc.Download(context.Background(), domain.Principal{UserID: 7}, domain.AssetBeat, 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(signed.URL, "http://files.test/files/signed/audio/night%20drive.wav?") {
		t.Fatalf("unexpected url %s", signed.URL)
	}
}

func TestDownload_NotOwned(t *testing.T) {
	store := &mockStore{hasCompletedPurchaseFn: ownsOnly(7, "beat", 42)}
	svc, _ := newTestAssetService(t, store, nil)

	_, err := svc.Download(context.Background(), domain.Principal{UserID: 8}, domain.AssetBeat, 42)
	if !errors.Is(err, domain.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestDownload_AdminBypassesOwnership(t *testing.T) {
	store := &mockStore{
		hasCompletedPurchaseFn: func(ctx context.Context, arg db.HasCompletedPurchaseParams) (bool, error) {
			t.Fatal("admins skip the ownership check")
			return false, nil
		},
		getBeatPackFn: func(ctx context.Context, id int64) (db.BeatPack, error) {
			return db.BeatPack{ID: id, ArchiveKey: "pack-3.zip"}, nil
		},
	}
	svc, _ := newTestAssetService(t, store, nil)

	signed, err := svc.Download(context.Background(), domain.Principal{UserID: 1, IsAdmin: true}, domain.AssetBeatPack, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(signed.URL, "/files/signed/packs/pack-3.zip?") {
		t.Fatalf("unexpected url %s", signed.URL)
	}
}

func TestDownload_BadType(t *testing.T) {
	svc, _ := newTestAssetService(t, &mockStore{}, nil)
	if _, err := svc.Download(context.Background(), domain.Principal{UserID: 7}, "song", 1); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	store := &mockStore{
		hasCompletedPurchaseFn: ownsOnly(7, "beat", 42),
		getAssetByObjectKeyFn: func(ctx context.Context, key string) (db.GetAssetByObjectKeyRow, error) {
			switch key {
			case "night-drive.wav":
				return db.GetAssetByObjectKeyRow{AssetID: 42, AssetType: "beat"}, nil
			case "pack-3.zip":
				return db.GetAssetByObjectKeyRow{AssetID: 3, AssetType: "beat_pack"}, nil
			}
			return db.GetAssetByObjectKeyRow{}, pgx.ErrNoRows
		},
	}
	svc, _ := newTestAssetService(t, store, nil)
	owner := domain.Principal{UserID: 7}
	stranger := domain.Principal{UserID: 8}

	tests := []struct {
		name   string
		p      domain.Principal
		path   string
		bucket string
		expect error
	}{
		{"public cover", stranger, "covers/night-drive.jpg", storage.BucketImages, nil},
		{"public preview", stranger, "previews/night-drive.mp3", storage.BucketPreviews, nil},
		{"owned audio", owner, "audio/night-drive.wav", storage.BucketAudio, nil},
		{"audio not owned", stranger, "audio/night-drive.wav", "", domain.ErrNotOwned},
		{"pack key under audio kind", owner, "audio/pack-3.zip", "", domain.ErrObjectNotFound},
		{"unknown kind", owner, "secrets/x", "", domain.ErrUnknownBucket},
		{"traversal", owner, "audio/../packs/pack-3.zip", "", domain.ErrObjectNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := svc.Resolve(context.Background(), tt.p, tt.path)
			if tt.expect != nil {
				if !errors.Is(err, tt.expect) {
					t.Fatalf("expected %v, got %v", tt.expect, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if loc.Bucket.Name != tt.bucket {
				t.Fatalf("expected bucket %s, got %s", tt.bucket, loc.Bucket.Name)
			}
		})
	}
}

func TestSign_ReusesCachedURL(t *testing.T) {
	c := newMapCache()
	svc, _ := newTestAssetService(t, &mockStore{}, c)
	loc, err := storage.NewResolver().Locate(storage.BucketAudio, "a.wav")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}

	first, err := svc.Sign(context.Background(), loc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := c.ttls[cache.KeySigned+"audio/a.wav"]; got != 14*time.Minute {
		t.Fatalf("expected cache ttl 14m, got %s", got)
	}

	second, err := svc.Sign(context.Background(), loc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.URL != first.URL {
		t.Fatalf("expected cached url, got %s and %s", first.URL, second.URL)
	}

	svc.now = fixedClock(first.ExpiresAt.Add(-30 * time.Second))
	third, err := svc.Sign(context.Background(), loc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if third.ExpiresAt.Before(first.ExpiresAt) {
		t.Fatalf("expected a fresh url near expiry, got %s", third.ExpiresAt)
	}
}

func TestOpenSigned(t *testing.T) {
	svc, root := newTestAssetService(t, &mockStore{}, nil)
	if err := os.MkdirAll(filepath.Join(root, "audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "audio", "a.wav"), []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	loc, _ := storage.NewResolver().Locate(storage.BucketAudio, "a.wav")
	signed, err := svc.Sign(context.Background(), loc)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expires, sig := signedParams(t, signed.URL)

	obj, got, err := svc.OpenSigned(context.Background(), "audio", "a.wav", expires, sig)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer obj.Body.Close()
	if got.Bucket.Name != "audio" || obj.Size != 4 {
		t.Fatalf("unexpected object %+v at %+v", obj, got)
	}

	if _, _, err := svc.OpenSigned(context.Background(), "packs", "a.wav", expires, sig); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func signedParams(t *testing.T, raw string) (string, string) {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	return u.Query().Get("expires"), u.Query().Get("sig")
}
