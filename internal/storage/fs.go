package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azizikri/beat-market/internal/domain"
)

type Object struct {
	Body        io.ReadSeekCloser
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

type Backend interface {
	Open(ctx context.Context, loc Location) (*Object, error)
}

// FSBackend keeps one directory per bucket under root.
type FSBackend struct {
	root string
}

func NewFSBackend(root string) *FSBackend {
	return &FSBackend{root: root}
}

func (b *FSBackend) Open(ctx context.Context, loc Location) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := filepath.Join(b.root, loc.Bucket.Name, filepath.FromSlash(loc.Key))
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat object: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrObjectNotFound
	}

	contentType := contentTypeFor(filepath.Ext(p))

	return &Object{
		Body:        f,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: contentType,
	}, nil
}

var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".zip":  "application/zip",
}

func contentTypeFor(ext string) string {
	ext = strings.ToLower(ext)
	if ct, ok := audioTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
