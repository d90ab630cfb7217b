// Package repository defines the activation result cache and its errors.
//
// The cache is content-addressed: a result is stored under a digest of the
// sample's full ordered composition, every irradiation event's parameters
// and the algorithm version tag. Computation is pure given those inputs,
// so concurrent recomputation of the same key is wasteful but never
// incorrect; writes are idempotent overwrites.
package repository

import (
	"context"

	"github.com/okian/bateman/internal/domain/activation"
)

// ComputeFunc produces a result on a cache miss.
type ComputeFunc func(ctx context.Context) (*activation.Result, error)

// Store provides read/write access to cached activation results.
type Store interface {
	// GetOrCompute returns the cached result for key, or runs fn and
	// caches its result. The second return reports a cache hit.
	GetOrCompute(ctx context.Context, key Key, fn ComputeFunc) (*activation.Result, bool, error)

	// Get returns the cached result for key.
	// Returns ErrNotFound when the key is unknown.
	Get(ctx context.Context, key Key) (*activation.Result, error)

	// Put stores a result under key, overwriting any previous entry.
	Put(ctx context.Context, key Key, res *activation.Result) error

	// Invalidate drops the entry for key, if present.
	Invalidate(ctx context.Context, key Key)

	// Len returns the number of cached results.
	Len(ctx context.Context) int
}
