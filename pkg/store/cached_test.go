package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/observability"
)

type countingStore struct {
	Store
	loads atomic.Int32
	delay time.Duration
}

func (s *countingStore) Load(ctx context.Context, username string) (*bento.Document, error) {
	s.loads.Add(1)
	time.Sleep(s.delay)
	return s.Store.Load(ctx, username)
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int32
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits.Add(1) }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func newCachedTestStore(t *testing.T) (*CachedStore, *countingStore) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingStore{Store: NewMemoryStore(grid.DefaultBreakpoints)}
	s := NewCachedStore(inner, fc, CachedOptions{Logger: log.New(discard{})})
	return s, inner
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestCachedStoreLoad(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s, inner := newCachedTestStore(t)
	if err := inner.Save(ctx, sampleDocument("ana")); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		d, err := s.Load(ctx, "ana")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(d.Widgets) != 2 {
			t.Errorf("len(Widgets) = %d, want 2", len(d.Widgets))
		}
	}

	if got := inner.loads.Load(); got != 1 {
		t.Errorf("backend loads = %d, want 1", got)
	}
	if hooks.misses.Load() != 1 || hooks.hits.Load() != 2 || hooks.sets.Load() != 1 {
		t.Errorf("hooks: %d misses, %d hits, %d sets; want 1, 2, 1",
			hooks.misses.Load(), hooks.hits.Load(), hooks.sets.Load())
	}
}

func TestCachedStoreSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	s, inner := newCachedTestStore(t)
	if err := s.Save(ctx, sampleDocument("ana")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "ana"); err != nil {
		t.Fatal(err)
	}

	d := sampleDocument("ana")
	d.Widgets = d.Widgets[:1]
	if err := s.Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Widgets) != 1 {
		t.Errorf("len(Widgets) = %d after save, want 1", len(got.Widgets))
	}
	if n := inner.loads.Load(); n != 2 {
		t.Errorf("backend loads = %d, want 2", n)
	}
}

func TestCachedStoreNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	s, inner := newCachedTestStore(t)

	for range 2 {
		if _, err := s.Load(ctx, "ghost"); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Fatalf("Load() error = %v, want %s", err, errors.ErrCodeNotFound)
		}
	}
	if n := inner.loads.Load(); n != 2 {
		t.Errorf("backend loads = %d, want 2", n)
	}
}

func TestCachedStoreSharesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: NewMemoryStore(grid.DefaultBreakpoints), delay: 50 * time.Millisecond}
	if err := inner.Save(ctx, sampleDocument("ana")); err != nil {
		t.Fatal(err)
	}
	s := NewCachedStore(inner, nil, CachedOptions{Logger: log.New(discard{})})

	var wg sync.WaitGroup
	docs := make([]*bento.Document, 8)
	for i := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := s.Load(ctx, "ana")
			if err != nil {
				t.Errorf("Load() error = %v", err)
				return
			}
			docs[i] = d
		}()
	}
	wg.Wait()

	if n := inner.loads.Load(); n >= int32(len(docs)) {
		t.Errorf("backend loads = %d, want fewer than %d", n, len(docs))
	}
	if docs[0] != nil && docs[1] != nil && docs[0] == docs[1] {
		t.Error("callers share one document pointer")
	}
}
