package api

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps stored sets in process memory. It is the default
// backend for development and tests; sets vanish when the process exits.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]*StoredSet
}

// NewMemoryStore creates an empty in-memory set store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]*StoredSet)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sets[id]
	if !ok {
		return nil, ErrSetNotFound
	}
	return stored.clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, set *StoredSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[set.ID] = set.clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[id]; !ok {
		return ErrSetNotFound
	}
	delete(s.sets, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*StoredSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StoredSet, 0, len(s.sets))
	for _, stored := range s.sets {
		out = append(out, stored.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
