package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/observability"
)

// CachedStore puts a read cache in front of another Store. Concurrent
// loads of the same user share one backend read, and every save deletes
// the user's cache entry. Cache failures are logged and otherwise ignored.
type CachedStore struct {
	inner  Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	bs     grid.Breakpoints
	logger *log.Logger
	group  singleflight.Group
}

// CachedOptions configures NewCachedStore.
type CachedOptions struct {
	Keyer       cache.Keyer      // defaults to cache.NewDefaultKeyer()
	TTL         time.Duration    // defaults to cache.TTLProfile
	Breakpoints grid.Breakpoints // defaults to grid.DefaultBreakpoints
	Logger      *log.Logger      // defaults to log.Default()
}

// NewCachedStore wraps inner with c. A nil cache disables caching.
func NewCachedStore(inner Store, c cache.Cache, opts CachedOptions) *CachedStore {
	if c == nil {
		c = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLProfile
	}
	if opts.Breakpoints == nil {
		opts.Breakpoints = grid.DefaultBreakpoints
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &CachedStore{
		inner:  inner,
		cache:  c,
		keyer:  opts.Keyer,
		ttl:    opts.TTL,
		bs:     opts.Breakpoints,
		logger: opts.Logger,
	}
}

// Load serves from the cache when possible and fills it on a miss. Missing
// users are not cached.
func (s *CachedStore) Load(ctx context.Context, username string) (*bento.Document, error) {
	key := s.keyer.ProfileKey(username)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	} else if ok {
		doc, err := bento.Decode(data, s.bs)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "profile")
			return doc, nil
		}
		s.logger.Warn("dropping undecodable cache entry", "key", key, "err", err)
		_ = s.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "profile")

	v, err, _ := s.group.Do(key, func() (any, error) {
		doc, err := s.inner.Load(ctx, username)
		if err != nil {
			return nil, err
		}
		if data, err := bento.Encode(doc); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn("cache write failed", "key", key, "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "profile", len(data))
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*bento.Document).Clone(), nil
}

// Save writes through to the backend and invalidates the cache entry.
func (s *CachedStore) Save(ctx context.Context, doc *bento.Document) error {
	if err := s.inner.Save(ctx, doc); err != nil {
		return err
	}
	key := s.keyer.ProfileKey(doc.Username)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "err", err)
	}
	return nil
}

// Close closes the cache and the wrapped store.
func (s *CachedStore) Close() error {
	cerr := s.cache.Close()
	if err := s.inner.Close(); err != nil {
		return err
	}
	return cerr
}

var _ Store = (*CachedStore)(nil)
