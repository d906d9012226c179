package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores objects as plain files under a root directory.
type LocalBackend struct {
	root string
}

// NewLocalBackend constructs a local-disk backend rooted at dir.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload directory is required")
	}
	return &LocalBackend{root: dir}, nil
}

// EnsureBucket creates the root directory if it does not exist.
func (l *LocalBackend) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.root, 0o755)
}

// Put writes an object to disk under the root directory.
func (l *LocalBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Get opens an object stored under the root directory.
func (l *LocalBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes an object from disk.
func (l *LocalBackend) Delete(ctx context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Bucket returns the root directory.
func (l *LocalBackend) Bucket() string {
	return l.root
}

// resolve joins the key to the root and refuses keys that would escape
// it.
func (l *LocalBackend) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("storage key is required")
	}
	path := filepath.Join(l.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("storage key escapes upload directory")
	}
	return path, nil
}
