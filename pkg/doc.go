// Package pkg provides the libraries behind bentogrid, the layout engine of
// a bento-style profile page.
//
// # Overview
//
// A profile is a set of widgets (link cards) arranged on one grid per
// responsive breakpoint. The widest breakpoint is canonical: every other
// grid is derived from it by reflowing its items in reading order, so all
// breakpoints agree on which widgets exist and in what order they read.
//
//  1. [core/grid] - Grid model, placement, reflow, projection, validation
//  2. [core/edit] - Layout edits: insert, remove, resize, commit
//  3. [bento] - Profile documents, legacy decoding, repair
//  4. [board] - Single-owner editing session that emits changed documents
//  5. [syncer] - Debounced, last-write-wins persistence of emitted documents
//  6. [store], [cache] - Persistence backends and read caches
//  7. [api] - HTTP API
//
// # Architecture
//
// The typical flow of an edit:
//
//	stored document
//	       ↓
//	  [bento.Repair] (drop unknown ids, re-derive broken grids)
//	       ↓
//	  [board.Board] (apply edit through core/edit)
//	       ↓
//	  [syncer.Syncer] or direct save
//	       ↓
//	  [store.Store] (memory, file, sqlite, mongo; optionally cached)
//
// # Quick Start
//
// Project a canonical grid onto every breakpoint:
//
//	items := []grid.Item{
//	    {ID: "a", X: 0, Y: 0, W: 2, H: 1},
//	    {ID: "b", X: 2, Y: 0, W: 2, H: 1},
//	}
//	layout := grid.Project(items, grid.DefaultBreakpoints)
//	// layout[grid.SM].Items: a(0,0,2,1) b(0,1,2,1)
//
// Edit a document and save it when the edits settle:
//
//	st, _ := store.OpenSQLite(ctx, "bento.db", grid.DefaultBreakpoints)
//	sy := syncer.New(st, syncer.Options{})
//	b := board.New(doc, board.Options{Sink: sy})
//	b.AddWidget(ctx, bento.Widget{URL: "https://example.com"})
//	sy.Close(ctx)
//
// # Main Packages
//
// [core/grid] - Items, breakpoints and the placement engine. [grid.Reflow]
// compacts a grid without overlaps or empty rows; [grid.Project] derives all
// breakpoints from the canonical one; [grid.Validate] reports broken
// invariants.
//
// [core/edit] - Pure functions from one layout to the next. Each returns a
// new layout and never mutates its input.
//
// [bento] - The persisted profile document. [bento.Decode] accepts widgets
// and layouts stored as JSON strings by older clients. [bento.Repair] turns
// any decoded document into a consistent one and reports every fix.
//
// [store] - Document persistence. Memory for tests, JSON files for the CLI,
// SQLite for single-node servers, MongoDB for the hosted service.
// [store.CachedStore] adds a Redis or file read cache with singleflight
// loading.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hook interfaces for edits, caches, syncs and HTTP.
//
// # Testing
//
//	go test ./...                  # All tests
//	go test ./pkg/core/grid/...    # Layout engine only
//	go test -run Example ./pkg/... # Examples only
//
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/bentogrid/pkg/core/grid
// [core/edit]: https://pkg.go.dev/github.com/matzehuels/bentogrid/pkg/core/edit
package pkg
