package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps each blob in its own file under dir
type DiskStore struct {
	dir string
	ext string
}

// NewDiskStore creates a disk store rooted at dir
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		dir: dir,
		ext: ".json",
	}
}

// Get reads the blob stored under key
func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read blob file: %w", err)
	}

	return data, nil
}

// Set overwrites the blob stored under key
func (s *DiskStore) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	if err := os.WriteFile(path, value, 0644); err != nil {
		return fmt.Errorf("write blob file: %w", err)
	}

	return nil
}

// Delete removes the blob stored under key; a missing blob is not an error
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}

// Close is a no-op for disk storage
func (s *DiskStore) Close() error {
	return nil
}

// Path returns the file backing key
func (s *DiskStore) Path(key string) (string, error) {
	if !validName(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key+s.ext), nil
}
