package basetraits

import (
	"context"
	"sync"
)

// Store caches respec base traits by token id. Base traits are immutable on
// chain, so entries never expire.
type Store interface {
	Get(ctx context.Context, tokenID string) ([]int, bool, error)
	Put(ctx context.Context, tokenID string, traits []int) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// MemoryStore is an unbounded in-process Store. Its lifetime is the lifetime
// of the value; share one per session or per process as needed.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string][]int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string][]int)}
}

func (s *MemoryStore) Get(_ context.Context, tokenID string) ([]int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[tokenID]
	if !ok {
		return nil, false, nil
	}
	return append([]int(nil), v...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, tokenID string, traits []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[tokenID] = append([]int(nil), traits...)
	return nil
}

// Len is the number of cached tokens.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
