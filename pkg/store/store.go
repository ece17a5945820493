// Package store persists profile documents.
//
// All backends implement [Store]. Documents are returned exactly as stored
// (legacy string-encoded fields already normalized); repairing them is the
// caller's job. A user without a document yields an error carrying
// errors.ErrCodeNotFound.
package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// Store loads and saves documents by username.
type Store interface {
	// Load returns the stored document of username.
	Load(ctx context.Context, username string) (*bento.Document, error)

	// Save upserts doc under doc.Username and stamps its update time.
	Save(ctx context.Context, doc *bento.Document) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite, BackendMongo}
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string
	Path        string // file directory or sqlite database file
	MongoURI    string
	Database    string
	Breakpoints grid.Breakpoints
	Logger      *log.Logger
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Breakpoints == nil {
		opts.Breakpoints = grid.DefaultBreakpoints
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	opts.Logger.Debug("opening store", "backend", opts.Backend, "path", opts.Path)

	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendMemory, "":
		s = NewMemoryStore(opts.Breakpoints)
	case BackendFile:
		s, err = NewFileStore(opts.Path, opts.Breakpoints)
	case BackendSQLite:
		s, err = OpenSQLite(ctx, opts.Path, opts.Breakpoints)
	case BackendMongo:
		s, err = OpenMongo(ctx, opts.MongoURI, opts.Database, opts.Breakpoints)
	default:
		err = errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func notFound(username string) error {
	return errors.New(errors.ErrCodeNotFound, "no document for %s", username)
}

// stamp returns the storage record of doc with its update time set.
func stamp(doc *bento.Document) bento.Record {
	r := doc.Record()
	r.UpdatedAt = time.Now().UTC()
	return r
}
