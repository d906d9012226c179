// Package storage persists uploaded file bytes. The default backend is
// a local directory; MinIO and GCS backends are available for
// deployments that want real object storage.
package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"time"

	"github.com/classhub/gateway/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// New constructs a Storage wrapper for the provided backend.
func New(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// NewFromConfig constructs a Storage for the configured backend.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	switch cfg.Backend {
	case config.StorageLocal, "":
		backend, err := NewLocalBackend(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case config.StorageMinio:
		backend, err := NewMinioBackend(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case config.StorageGCS:
		backend, err := NewGCSBackend(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// NewKey builds a collision-resistant storage key for an upload:
// millisecond timestamp plus a random suffix, keeping only the original
// file extension. Metadata such as the original name stays in the
// database, never in the key.
func NewKey(originalName string) string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		suffix = big.NewInt(time.Now().UnixNano() % 1_000_000_000)
	}
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), suffix, filepath.Ext(originalName))
}
