package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// SQLiteStore keeps documents in a local SQLite database, one row per user.
// widgets and layouts are stored as JSON text.
type SQLiteStore struct {
	db *sql.DB
	bs grid.Breakpoints
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, bs grid.Breakpoints) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite store needs a database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open %s", path)
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS bento_configs (
			username   TEXT PRIMARY KEY,
			widgets    TEXT NOT NULL DEFAULT '[]',
			layouts    TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStore, err, "prepare %s", path)
		}
	}
	return &SQLiteStore{db: db, bs: bs}, nil
}

// Load reads one row. widgets and layouts may hold either a JSON value or
// a JSON string wrapping one.
func (s *SQLiteStore) Load(ctx context.Context, username string) (*bento.Document, error) {
	var widgets, layouts, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT widgets, layouts, updated_at FROM bento_configs WHERE username = ?`, username,
	).Scan(&widgets, &layouts, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(username)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load %s", username)
	}

	r := bento.Record{Username: username}
	if err := bento.DecodeLegacy(json.RawMessage(widgets), &r.Widgets); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode widgets of %s", username)
	}
	if err := bento.DecodeLegacy(json.RawMessage(layouts), &r.Layouts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layouts of %s", username)
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		r.UpdatedAt = t
	}
	if r.Widgets == nil {
		r.Widgets = []bento.Widget{}
	}
	return bento.FromRecord(r, s.bs), nil
}

// Save upserts the row for doc.Username.
func (s *SQLiteStore) Save(ctx context.Context, doc *bento.Document) error {
	r := stamp(doc)
	widgets, err := json.Marshal(r.Widgets)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode widgets")
	}
	layouts, err := json.Marshal(r.Layouts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layouts")
	}
	now := r.UpdatedAt.Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bento_configs (username, widgets, layouts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			widgets = excluded.widgets,
			layouts = excluded.layouts,
			updated_at = excluded.updated_at`,
		r.Username, string(widgets), string(layouts), now, now)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", r.Username)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
