package cache

import (
	"context"
	"time"
)

// NullCache backs the "none" cache backend. Profile loads always read
// through to the store and projections are recomputed on every request.
type NullCache struct{}

// NewNullCache returns the cache used when caching is switched off.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss for every profile or projection key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete has nothing to invalidate.
func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
