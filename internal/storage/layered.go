package storage

import (
	"context"
	"errors"
)

// LayeredStore fronts a durable store with a memory store
type LayeredStore struct {
	memory  Store
	durable Store
}

// NewLayeredStore creates a layered store over durable
func NewLayeredStore(durable Store) *LayeredStore {
	return &LayeredStore{
		memory:  NewMemoryStore(),
		durable: durable,
	}
}

// Get checks memory first, then the durable layer
func (s *LayeredStore) Get(ctx context.Context, key string) ([]byte, error) {
	if val, err := s.memory.Get(ctx, key); err == nil {
		return val, nil
	}

	val, err := s.durable.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Promote to memory
	_ = s.memory.Set(ctx, key, val)
	return val, nil
}

// Set writes the durable layer first so a failed write never reaches memory
func (s *LayeredStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.durable.Set(ctx, key, value); err != nil {
		return err
	}
	return s.memory.Set(ctx, key, value)
}

// Delete removes key from both layers
func (s *LayeredStore) Delete(ctx context.Context, key string) error {
	_ = s.memory.Delete(ctx, key)
	return s.durable.Delete(ctx, key)
}

// Close closes both layers
func (s *LayeredStore) Close() error {
	return errors.Join(s.memory.Close(), s.durable.Close())
}
