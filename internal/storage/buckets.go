package storage

import (
	"path"
	"strings"

	"github.com/azizikri/beat-market/internal/domain"
)

const (
	BucketImages   = "images"
	BucketPreviews = "previews"
	BucketAudio    = "audio"
	BucketPacks    = "packs"
)

type Bucket struct {
	Name   string
	Public bool
}

// Location addresses one object in the backend.
type Location struct {
	Bucket Bucket
	Key    string
}

// Resolver maps the first segment of a logical file path to a bucket.
type Resolver struct {
	kinds   map[string]Bucket
	buckets map[string]Bucket
}

func NewResolver() *Resolver {
	images := Bucket{Name: BucketImages, Public: true}
	previews := Bucket{Name: BucketPreviews, Public: true}
	audio := Bucket{Name: BucketAudio}
	packs := Bucket{Name: BucketPacks}

	return &Resolver{
		kinds: map[string]Bucket{
			"covers":   images,
			"previews": previews,
			"audio":    audio,
			"packs":    packs,
		},
		buckets: map[string]Bucket{
			images.Name:   images,
			previews.Name: previews,
			audio.Name:    audio,
			packs.Name:    packs,
		},
	}
}

// Resolve turns "covers/beat-1.jpg" into the images bucket and key "beat-1.jpg".
func (r *Resolver) Resolve(logicalPath string) (Location, error) {
	kind, rest, ok := strings.Cut(strings.TrimPrefix(logicalPath, "/"), "/")
	if !ok {
		return Location{}, domain.ErrObjectNotFound
	}
	bucket, ok := r.kinds[kind]
	if !ok {
		return Location{}, domain.ErrUnknownBucket
	}
	key, err := cleanKey(rest)
	if err != nil {
		return Location{}, err
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Bucket looks a bucket up by its storage name, as used in signed URLs.
func (r *Resolver) Bucket(name string) (Bucket, error) {
	bucket, ok := r.buckets[name]
	if !ok {
		return Bucket{}, domain.ErrUnknownBucket
	}
	return bucket, nil
}

func (r *Resolver) Locate(bucketName, key string) (Location, error) {
	bucket, err := r.Bucket(bucketName)
	if err != nil {
		return Location{}, err
	}
	key, err = cleanKey(key)
	if err != nil {
		return Location{}, err
	}
	return Location{Bucket: bucket, Key: key}, nil
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", domain.ErrObjectNotFound
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", domain.ErrObjectNotFound
		}
	}
	return path.Clean(key), nil
}
