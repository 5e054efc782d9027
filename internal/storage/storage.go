package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no blob is stored under a key
var ErrNotFound = errors.New("blob not found")

// Store defines a key-value slot for opaque blobs
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key namespaces a blob name for shared backends (SQLite, Redis)
func Key(name string) string {
	return "feels:v1:" + name
}

// validName rejects names that would escape a directory or namespace
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
