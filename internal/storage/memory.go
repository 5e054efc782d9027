package storage

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps blobs in process memory; nothing survives a restart
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty memory store whose entries never expire
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a copy of the blob stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if val, found := s.cache.Get(key); found {
		return clone(val.([]byte)), nil
	}
	return nil, ErrNotFound
}

// Set stores a copy of value under key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.cache.Set(key, clone(value), gocache.NoExpiration)
	return nil
}

// Delete removes the blob stored under key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Close flushes all blobs
func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
