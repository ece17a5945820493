package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// FileStore keeps documents as JSON files. In directory mode every user
// has <dir>/<username>.json; a store opened with OpenDocumentFile reads and
// writes one file regardless of username.
type FileStore struct {
	mu   sync.RWMutex
	bs   grid.Breakpoints
	dir  string
	file string
}

// NewFileStore returns a directory-mode store rooted at dir, creating it if
// needed.
func NewFileStore(dir string, bs grid.Breakpoints) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{bs: bs, dir: dir}, nil
}

// OpenDocumentFile returns a store bound to the single document at path.
func OpenDocumentFile(path string, bs grid.Breakpoints) *FileStore {
	return &FileStore{bs: bs, file: path}
}

// Path returns the file that holds username's document.
func (s *FileStore) Path(username string) (string, error) {
	if s.file != "" {
		return s.file, nil
	}
	if err := errors.ValidateUsername(username); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, username+".json"), nil
}

// Load reads and decodes the document file. Legacy string-encoded fields
// are accepted.
func (s *FileStore) Load(_ context.Context, username string) (*bento.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.Path(username)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(username)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read document")
	}
	return bento.Decode(data, s.bs)
}

// Save writes the document through a temporary file so readers never see a
// partial write.
func (s *FileStore) Save(_ context.Context, doc *bento.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.Path(doc.Username)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(stamp(doc), "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bento-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "write document")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document")
	}
	return nil
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
