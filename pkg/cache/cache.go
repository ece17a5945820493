// Package cache provides byte caches for profile documents and projected
// layouts.
//
// Three backends implement [Cache]: [NullCache] disables caching,
// [FileCache] keeps entries on local disk for the CLI, and [RedisCache]
// shares entries between API instances. Keys come from a [Keyer] so that
// every caller names entries the same way.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
)

// Default entry lifetimes.
const (
	// TTLProfile bounds how stale a cached profile may be. Saves delete the
	// entry, so the TTL only matters for writes from other processes.
	TTLProfile = 60 * time.Second

	// TTLProjection is the lifetime of a projected layout. Projections are
	// pure functions of their input and never go stale.
	TTLProjection = 24 * time.Hour
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or after expiry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer names cache entries.
type Keyer interface {
	// ProfileKey names the cached document of a user.
	ProfileKey(username string) string

	// ProjectionKey names the layout projected from canonical items for a
	// breakpoint table.
	ProjectionKey(canonical []grid.Item, bs grid.Breakpoints) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ProfileKey returns "bento:<username>".
func (DefaultKeyer) ProfileKey(username string) string {
	return "bento:" + username
}

// ProjectionKey hashes the items and breakpoint table.
func (DefaultKeyer) ProjectionKey(canonical []grid.Item, bs grid.Breakpoints) string {
	return hashKey("projection", canonical, bs)
}
