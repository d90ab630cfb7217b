package repository

import (
	"context"
	"sync"

	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/pkg/metrics"
)

// defaultMaxEntries bounds the in-memory cache.
const defaultMaxEntries = 10000

// MemStore implements Store with an in-memory map. Reads take the shared
// lock; writes are idempotent overwrites keyed by hash, so two goroutines
// racing to store the same key converge on the same value.
type MemStore struct {
	mu         sync.RWMutex
	entries    map[Key]*activation.Result
	order      []Key // insertion order, for bounded eviction
	maxEntries int
}

// NewMemStore creates an in-memory result cache.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		entries:    make(map[Key]*activation.Result),
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCompute implements Store. The compute function runs outside the
// lock; a concurrent computation of the same key is allowed and harmless.
func (s *MemStore) GetOrCompute(ctx context.Context, key Key, fn ComputeFunc) (*activation.Result, bool, error) {
	if res, err := s.Get(ctx, key); err == nil {
		metrics.RecordCacheHit()
		return res, true, nil
	}
	metrics.RecordCacheMiss()

	res, err := fn(ctx)
	if err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, ErrNilResult
	}
	// Unsuccessful results are never cached. They reflect missing
	// collaborator data rather than physics, and flux configurations are
	// not part of the key, so a later retry can legitimately succeed.
	if !res.Success {
		res.Hash = string(key)
		return res, false, nil
	}
	if err := s.Put(ctx, key, res); err != nil {
		return nil, false, err
	}
	return res, false, nil
}

// Get implements Store.
func (s *MemStore) Get(_ context.Context, key Key) (*activation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return res, nil
}

// Put implements Store.
func (s *MemStore) Put(_ context.Context, key Key, res *activation.Result) error {
	if res == nil {
		return ErrNilResult
	}
	res.Hash = string(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = res
	for s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
		metrics.RecordCacheEviction()
	}
	metrics.UpdateCachedResults(len(s.entries))
	return nil
}

// Invalidate implements Store.
func (s *MemStore) Invalidate(_ context.Context, key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateCachedResults(len(s.entries))
}

// Len implements Store.
func (s *MemStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
