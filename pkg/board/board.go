// Package board owns one profile document while it is being edited.
//
// A Board applies user edits through the layout engine and hands every edit
// that changed the document to its Sink, usually a debounced syncer. Two
// kinds of update never reach the sink: edits that leave the layout and
// widgets as they were, and documents applied from the remote side with
// ApplyRemote. The latter keeps a document that was just loaded from
// storage from being written straight back.
//
// A Board is not safe for concurrent use.
package board

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/edit"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/observability"
)

// Sink receives documents after committed edits.
type Sink interface {
	Submit(doc *bento.Document)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(doc *bento.Document)

// Submit calls f(doc).
func (f SinkFunc) Submit(doc *bento.Document) { f(doc) }

// Options configures a Board.
type Options struct {
	Breakpoints    grid.Breakpoints // defaults to grid.DefaultBreakpoints
	ReflowOnResize bool
	Sink           Sink          // nil discards changes
	Logger         *log.Logger   // defaults to log.Default()
	NewID          func() string // defaults to uuid.NewString
}

// Board is the single owner of a document under edit.
type Board struct {
	doc  *bento.Document
	opts Options
}

// New returns a board over a copy of doc. doc is expected to have been
// repaired for the same breakpoints.
func New(doc *bento.Document, opts Options) *Board {
	if opts.Breakpoints == nil {
		opts.Breakpoints = grid.DefaultBreakpoints
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Board{doc: doc.Clone(), opts: opts}
}

// Snapshot returns a copy of the current document.
func (b *Board) Snapshot() *bento.Document { return b.doc.Clone() }

// Layout returns a copy of the current layout.
func (b *Board) Layout() grid.Layout { return b.doc.Layouts.Clone() }

// View returns the current layout with every item marked static, for
// read-only rendering.
func (b *Board) View() grid.Layout { return b.doc.Layouts.WithStatic(true) }

// AddWidget inserts w at the first free cell of the canonical grid. An
// empty id is replaced by a fresh one and an empty size defaults to 1x1.
// It returns the widget as stored.
func (b *Board) AddWidget(ctx context.Context, w bento.Widget) (bento.Widget, error) {
	start := time.Now()
	if w.ID == "" {
		w.ID = b.opts.NewID()
	}
	if w.Size == "" {
		w.Size = grid.DefaultSize
	}

	err := b.validateNew(w)
	if err == nil {
		it := grid.NewItem(w.ID)
		it.W, it.H, _ = w.Size.Dims()
		b.doc.Widgets = append(b.doc.Widgets, w)
		b.doc.Layouts = edit.Insert(b.doc.Layouts, b.opts.Breakpoints, it)
	}
	b.finish(ctx, "insert", err == nil, start, err, "id", w.ID, "size", w.Size)
	return w, err
}

func (b *Board) validateNew(w bento.Widget) error {
	if err := errors.ValidateWidgetID(w.ID); err != nil {
		return err
	}
	if _, exists := b.doc.Widget(w.ID); exists {
		return errors.New(errors.ErrCodeInvalidInput, "widget %s already exists", w.ID)
	}
	patch := bento.Patch{Size: &w.Size, URL: &w.URL, CustomImage: &w.CustomImage, ImageFit: &w.ImageFit}
	return patch.Validate()
}

// RemoveWidget deletes a widget and closes the hole it leaves in every grid.
func (b *Board) RemoveWidget(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	if _, ok := b.doc.Widget(id); !ok {
		err = errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
	} else {
		b.doc.Widgets = slices.DeleteFunc(b.doc.Widgets, func(w bento.Widget) bool { return w.ID == id })
		b.doc.Layouts = edit.Remove(b.doc.Layouts, id)
	}
	b.finish(ctx, "remove", err == nil, start, err, "id", id)
	return err
}

// ResizeWidget changes a widget's size. The new span is applied in place
// unless the board was configured to reflow on resize. It reports whether
// the document changed; an unknown size leaves the board untouched and
// returns an ErrCodeInvalidSize error.
func (b *Board) ResizeWidget(ctx context.Context, id string, size grid.Size) (bool, error) {
	start := time.Now()
	changed, err := b.resize(id, size)
	b.finish(ctx, "resize", changed, start, err, "id", id, "size", size)
	return changed, err
}

func (b *Board) resize(id string, size grid.Size) (bool, error) {
	i := slices.IndexFunc(b.doc.Widgets, func(w bento.Widget) bool { return w.ID == id })
	if i < 0 {
		return false, errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
	}
	next, ok := edit.Resize(b.doc.Layouts, id, size, edit.ResizeOptions{Reflow: b.opts.ReflowOnResize})
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidSize, "unknown widget size %q", size)
	}
	changed := b.doc.Widgets[i].Size != size || !grid.Equal(next, b.doc.Layouts)
	b.doc.Widgets[i].Size = size
	b.doc.Layouts = next
	return changed, nil
}

// UpdateWidget applies a partial update to a widget. A size change resizes
// the widget's items as ResizeWidget does.
func (b *Board) UpdateWidget(ctx context.Context, id string, p bento.Patch) (bento.Widget, error) {
	start := time.Now()
	w, changed, err := b.update(id, p)
	b.finish(ctx, "update", changed, start, err, "id", id)
	return w, err
}

func (b *Board) update(id string, p bento.Patch) (bento.Widget, bool, error) {
	i := slices.IndexFunc(b.doc.Widgets, func(w bento.Widget) bool { return w.ID == id })
	if i < 0 {
		return bento.Widget{}, false, errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
	}
	if err := p.Validate(); err != nil {
		return b.doc.Widgets[i], false, err
	}

	resized := false
	if p.Size != nil {
		var err error
		if resized, err = b.resize(id, *p.Size); err != nil {
			return b.doc.Widgets[i], false, err
		}
	}
	before := b.doc.Widgets[i]
	after := p.Apply(before)
	b.doc.Widgets[i] = after
	return after, resized || after != before, nil
}

// CommitLayout accepts a candidate arrangement for one breakpoint, as
// produced by a drag. It reports false without notifying the sink when the
// candidate matches the current arrangement; a candidate whose ids differ
// from the grid's returns an ErrCodeInvalidLayout error.
func (b *Board) CommitLayout(ctx context.Context, bp grid.Breakpoint, items []grid.Item) (bool, error) {
	start := time.Now()
	changed, err := b.commit(bp, items)
	b.finish(ctx, "commit", changed, start, err, "breakpoint", bp, "items", len(items))
	return changed, err
}

func (b *Board) commit(bp grid.Breakpoint, items []grid.Item) (bool, error) {
	g, ok := b.doc.Layouts[bp]
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q", bp)
	}
	cand := grid.Grid{Columns: g.Columns, Items: items}
	if !slices.Equal(cand.IDs(), g.IDs()) {
		return false, errors.New(errors.ErrCodeInvalidLayout, "candidate ids for %s do not match the current widgets", bp)
	}
	next, changed := edit.Commit(b.doc.Layouts, bp, items)
	b.doc.Layouts = next
	return changed, nil
}

// ApplyRemote replaces the board's document with one received from
// storage. The sink is never notified. It reports whether the document
// differed from the current one.
func (b *Board) ApplyRemote(doc *bento.Document) bool {
	changed := !grid.Equal(doc.Layouts, b.doc.Layouts) || !slices.Equal(doc.Widgets, b.doc.Widgets)
	b.doc = doc.Clone()
	if changed {
		b.opts.Logger.Debug("applied remote document", "user", doc.Username, "widgets", len(doc.Widgets))
	}
	return changed
}

func (b *Board) finish(ctx context.Context, op string, changed bool, start time.Time, err error, keyvals ...any) {
	d := time.Since(start)
	observability.Engine().OnEdit(ctx, op, changed, d, err)

	kv := append([]any{"op", op, "changed", changed}, keyvals...)
	if err != nil {
		b.opts.Logger.Debug("edit rejected", append(kv, "err", err)...)
		return
	}
	b.opts.Logger.Debug("edit applied", kv...)
	if changed && b.opts.Sink != nil {
		b.opts.Sink.Submit(b.doc.Clone())
	}
}
