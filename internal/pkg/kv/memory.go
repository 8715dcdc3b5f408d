package kv

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and as a fallback when no
// database is configured. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]string
	maxSize int
}

// NewMemoryStore creates an empty in-memory store. maxSize <= 0 applies
// DefaultMaxValueSize.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxValueSize
	}
	return &MemoryStore{data: make(map[string]string), maxSize: maxSize}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if len(value) > s.maxSize {
		return ErrTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
