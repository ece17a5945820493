package store

import (
	"context"
	"sync"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
)

// MemoryStore keeps documents in process memory. It backs tests and
// single-process previews.
type MemoryStore struct {
	mu   sync.RWMutex
	bs   grid.Breakpoints
	docs map[string]bento.Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(bs grid.Breakpoints) *MemoryStore {
	return &MemoryStore{bs: bs, docs: make(map[string]bento.Record)}
}

// Load returns a copy of the stored document.
func (s *MemoryStore) Load(_ context.Context, username string) (*bento.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.docs[username]
	if !ok {
		return nil, notFound(username)
	}
	return bento.FromRecord(r, s.bs), nil
}

// Save stores a copy of doc.
func (s *MemoryStore) Save(_ context.Context, doc *bento.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.Username] = stamp(doc)
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
