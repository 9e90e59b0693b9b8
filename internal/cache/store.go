// Package cache provides the shared caching infrastructure for the support
// bot: a byte-oriented Store with memory and Redis implementations, and
// typed wrappers for the intent and reply caches.
//
// Entries never expire within a process lifetime; the only way to remove
// them is the administrative Clear operation, which is mutually exclusive
// with concurrent reads and writes of the same store.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrMiss indicates a cache miss.
var ErrMiss = errors.New("cache miss")

// Store defines the cache interface.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore implements an in-process cache. Writes are idempotent upserts
// keyed by fingerprint; Clear takes the write lock so readers never observe
// a partially cleared map.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value from the store.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return val, nil
}

// Set stores a value. Existing entries are overwritten.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of entries. Used by tests and the debug CLI.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Ensure implementations satisfy the interface.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
