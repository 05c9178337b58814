package storage

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store (dev/test use).
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (s *MemStore) Set(ctx context.Context, key string, value []byte) ([]byte, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.data[key]
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return prev, nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
