package cache

import "github.com/matzehuels/bentogrid/pkg/core/grid"

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis instance without reading each other's entries.
//
// Example usage:
//
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ProfileKey generates a prefixed profile key.
func (k *ScopedKeyer) ProfileKey(username string) string {
	return k.prefix + k.inner.ProfileKey(username)
}

// ProjectionKey generates a prefixed projection key.
func (k *ScopedKeyer) ProjectionKey(canonical []grid.Item, bs grid.Breakpoints) string {
	return k.prefix + k.inner.ProjectionKey(canonical, bs)
}
