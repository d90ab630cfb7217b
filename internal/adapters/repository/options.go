// Package repository defines the activation result cache and its errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxEntries bounds the cache; the oldest entry is evicted when the
// bound is exceeded. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *MemStore) {
		s.maxEntries = n
	}
}
