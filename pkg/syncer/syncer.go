// Package syncer saves edited documents in the background.
//
// Submitting a document makes it the pending one and restarts a debounce
// timer; when the timer fires only the latest pending document is saved.
// Saves are serialized, so the last submitted document is also the last one
// written. A failed save is logged and reported to the sync hooks but not
// retried: the next submission carries the latest state anyway.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/observability"
)

// DefaultSaveTimeout bounds a save started by the debounce timer.
const DefaultSaveTimeout = 5 * time.Second

// Saver persists a document.
type Saver interface {
	Save(ctx context.Context, doc *bento.Document) error
}

// Options configures a Syncer.
type Options struct {
	Debounce    time.Duration // defaults to DefaultDebounce
	SaveTimeout time.Duration // defaults to DefaultSaveTimeout
	Logger      *log.Logger   // defaults to log.Default()
}

// Syncer debounces document saves. It is safe for concurrent use.
type Syncer struct {
	saver     Saver
	debouncer *Debouncer
	timeout   time.Duration
	logger    *log.Logger

	mu        sync.Mutex
	pending   *bento.Document
	coalesced int
	closed    bool

	saveMu sync.Mutex
}

// New returns a Syncer writing to saver.
func New(saver Saver, opts Options) *Syncer {
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Syncer{
		saver:     saver,
		debouncer: NewDebouncer(opts.Debounce),
		timeout:   opts.SaveTimeout,
		logger:    opts.Logger,
	}
}

// Submit makes doc the pending document and restarts the debounce window.
// Submissions after Close are dropped.
func (s *Syncer) Submit(doc *bento.Document) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("sync closed, dropping document", "user", doc.Username)
		return
	}
	s.pending = doc
	s.coalesced++
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.flush(ctx)
	})
}

// Pending reports whether a document is waiting to be saved.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush saves the pending document now, if there is one.
func (s *Syncer) Flush(ctx context.Context) error {
	s.debouncer.Cancel()
	return s.flush(ctx)
}

// Close stops accepting documents and saves the pending one.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Syncer) flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	doc, n := s.pending, s.coalesced
	s.pending, s.coalesced = nil, 0
	s.mu.Unlock()
	if doc == nil {
		return nil
	}

	start := time.Now()
	if err := s.saver.Save(ctx, doc); err != nil {
		s.logger.Error("sync failed", "user", doc.Username, "err", err)
		observability.Sync().OnSyncError(ctx, doc.Username, err)
		return err
	}
	d := time.Since(start)
	s.logger.Debug("synced", "user", doc.Username, "coalesced", n, "duration", d)
	observability.Sync().OnFlush(ctx, doc.Username, n, d)
	return nil
}
