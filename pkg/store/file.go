package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileBackend stores each value as a file in a directory. Writes are atomic:
// a crash mid-write leaves the previous value in place.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend in the given directory.
// The directory will be created if it doesn't exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

// Get reads the value for key.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the value for key.
func (b *FileBackend) Set(ctx context.Context, key string, data []byte) error {
	path := b.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Delete removes the file for key.
func (b *FileBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (b *FileBackend) Close() error { return nil }

// path converts a key to a file path. The first two hash characters name a
// subdirectory so no single directory grows too large.
func (b *FileBackend) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(b.dir, hash[:2], hash[2:]+".json")
}

// Ensure FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)
