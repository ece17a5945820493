package board

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

type recordingSink struct {
	docs []*bento.Document
}

func (s *recordingSink) Submit(doc *bento.Document) { s.docs = append(s.docs, doc) }

func newTestBoard(t *testing.T, opts Options) (*Board, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	n := 0
	opts.Sink = sink
	opts.NewID = func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
	return New(bento.New("ana", grid.DefaultBreakpoints), opts), sink
}

func itemOf(t *testing.T, l grid.Layout, bp grid.Breakpoint, id string) grid.Item {
	t.Helper()
	g := l[bp]
	i := g.Index(id)
	if i < 0 {
		t.Fatalf("%s has no item %s", bp, id)
	}
	return g.Items[i]
}

func TestAddWidget(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})

	a, err := b.AddWidget(ctx, bento.Widget{})
	if err != nil {
		t.Fatalf("AddWidget() error = %v", err)
	}
	if a.ID != "w1" || a.Size != grid.Size1x1 {
		t.Errorf("AddWidget() = %+v, want id w1 size 1x1", a)
	}
	if it := itemOf(t, b.Layout(), grid.LG, "w1"); it.X != 0 || it.Y != 0 {
		t.Errorf("w1 at (%d,%d), want (0,0)", it.X, it.Y)
	}

	if _, err := b.AddWidget(ctx, bento.Widget{URL: "https://example.com"}); err != nil {
		t.Fatalf("AddWidget() error = %v", err)
	}
	if it := itemOf(t, b.Layout(), grid.LG, "w2"); it.X != 1 || it.Y != 0 {
		t.Errorf("w2 at (%d,%d), want (1,0)", it.X, it.Y)
	}

	if len(sink.docs) != 2 {
		t.Fatalf("sink received %d documents, want 2", len(sink.docs))
	}
	if got := len(sink.docs[1].Widgets); got != 2 {
		t.Errorf("last submitted document has %d widgets, want 2", got)
	}
}

func TestAddWidgetRejected(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	if _, err := b.AddWidget(ctx, bento.Widget{ID: "a"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		widget bento.Widget
		code   errors.Code
	}{
		{"duplicate id", bento.Widget{ID: "a"}, errors.ErrCodeInvalidInput},
		{"bad size", bento.Widget{ID: "b", Size: "5x5"}, errors.ErrCodeInvalidSize},
		{"bad url", bento.Widget{ID: "c", URL: "file:///etc/passwd"}, errors.ErrCodeInvalidInput},
		{"bad id", bento.Widget{ID: "has space"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.AddWidget(ctx, tt.widget)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("AddWidget() code = %q, want %q", got, tt.code)
			}
		})
	}
	if len(sink.docs) != 1 {
		t.Errorf("sink received %d documents, want 1", len(sink.docs))
	}
	if n := len(b.Snapshot().Widgets); n != 1 {
		t.Errorf("board has %d widgets, want 1", n)
	}
}

func TestRemoveWidget(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	for range 3 {
		if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
			t.Fatal(err)
		}
	}

	if err := b.RemoveWidget(ctx, "w2"); err != nil {
		t.Fatalf("RemoveWidget() error = %v", err)
	}
	if it := itemOf(t, b.Layout(), grid.LG, "w3"); it.X != 1 || it.Y != 0 {
		t.Errorf("w3 at (%d,%d), want (1,0)", it.X, it.Y)
	}
	if _, ok := b.Snapshot().Widget("w2"); ok {
		t.Error("w2 still present")
	}

	err := b.RemoveWidget(ctx, "w2")
	if !errors.Is(err, errors.ErrCodeWidgetNotFound) {
		t.Errorf("RemoveWidget() error = %v, want %s", err, errors.ErrCodeWidgetNotFound)
	}
	if len(sink.docs) != 4 {
		t.Errorf("sink received %d documents, want 4", len(sink.docs))
	}
}

func TestResizeWidget(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
		t.Fatal(err)
	}
	sink.docs = nil

	changed, err := b.ResizeWidget(ctx, "w1", grid.Size2x2)
	if err != nil || !changed {
		t.Fatalf("ResizeWidget() = %v, %v, want true, nil", changed, err)
	}
	if it := itemOf(t, b.Layout(), grid.XXS, "w1"); it.W != 1 || it.H != 2 {
		t.Errorf("xxs w1 = %v, want 1x2", it)
	}
	if w, _ := b.Snapshot().Widget("w1"); w.Size != grid.Size2x2 {
		t.Errorf("widget size = %s, want 2x2", w.Size)
	}

	changed, err = b.ResizeWidget(ctx, "w1", grid.Size2x2)
	if err != nil || changed {
		t.Errorf("repeated ResizeWidget() = %v, %v, want false, nil", changed, err)
	}

	changed, err = b.ResizeWidget(ctx, "w1", "10x10")
	if changed || !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("ResizeWidget(10x10) = %v, %v, want false, %s", changed, err, errors.ErrCodeInvalidSize)
	}
	if len(sink.docs) != 1 {
		t.Errorf("sink received %d documents, want 1", len(sink.docs))
	}
}

func TestResizeWidgetReflow(t *testing.T) {
	ctx := context.Background()
	for _, reflow := range []bool{false, true} {
		t.Run(fmt.Sprintf("reflow=%v", reflow), func(t *testing.T) {
			b, _ := newTestBoard(t, Options{ReflowOnResize: reflow})
			for range 2 {
				if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := b.ResizeWidget(ctx, "w1", grid.Size2x1); err != nil {
				t.Fatal(err)
			}

			w2 := itemOf(t, b.Layout(), grid.LG, "w2")
			wantX := 1
			if reflow {
				wantX = 2
			}
			if w2.X != wantX {
				t.Errorf("w2.X = %d, want %d", w2.X, wantX)
			}
		})
	}
}

func TestUpdateWidget(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
		t.Fatal(err)
	}
	sink.docs = nil

	title := "Blog"
	size := grid.Size3x1
	w, err := b.UpdateWidget(ctx, "w1", bento.Patch{CustomTitle: &title, Size: &size})
	if err != nil {
		t.Fatalf("UpdateWidget() error = %v", err)
	}
	if w.CustomTitle != "Blog" || w.Size != grid.Size3x1 {
		t.Errorf("UpdateWidget() = %+v", w)
	}
	if it := itemOf(t, b.Layout(), grid.LG, "w1"); it.W != 3 {
		t.Errorf("lg w1 width = %d, want 3", it.W)
	}

	if _, err := b.UpdateWidget(ctx, "w1", bento.Patch{CustomTitle: &title}); err != nil {
		t.Fatal(err)
	}
	if len(sink.docs) != 1 {
		t.Errorf("sink received %d documents, want 1", len(sink.docs))
	}

	if _, err := b.UpdateWidget(ctx, "nope", bento.Patch{}); !errors.Is(err, errors.ErrCodeWidgetNotFound) {
		t.Errorf("UpdateWidget(nope) error = %v", err)
	}
}

func TestCommitLayout(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	for range 2 {
		if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
			t.Fatal(err)
		}
	}
	sink.docs = nil

	same := b.Layout()[grid.LG].Items
	changed, err := b.CommitLayout(ctx, grid.LG, same)
	if err != nil || changed {
		t.Errorf("CommitLayout(same) = %v, %v, want false, nil", changed, err)
	}

	swapped := []grid.Item{
		{ID: "w1", X: 1, Y: 0, W: 1, H: 1},
		{ID: "w2", X: 0, Y: 0, W: 1, H: 1},
	}
	changed, err = b.CommitLayout(ctx, grid.LG, swapped)
	if err != nil || !changed {
		t.Fatalf("CommitLayout(swapped) = %v, %v, want true, nil", changed, err)
	}
	if it := itemOf(t, b.Layout(), grid.LG, "w1"); it.X != 1 {
		t.Errorf("w1.X = %d, want 1", it.X)
	}

	_, err = b.CommitLayout(ctx, grid.LG, swapped[:1])
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("CommitLayout(partial) error = %v, want %s", err, errors.ErrCodeInvalidLayout)
	}
	_, err = b.CommitLayout(ctx, "xl", swapped)
	if !errors.Is(err, errors.ErrCodeInvalidBreakpoint) {
		t.Errorf("CommitLayout(xl) error = %v, want %s", err, errors.ErrCodeInvalidBreakpoint)
	}

	if len(sink.docs) != 1 {
		t.Errorf("sink received %d documents, want 1", len(sink.docs))
	}
}

func TestApplyRemoteDoesNotEmit(t *testing.T) {
	ctx := context.Background()
	b, sink := newTestBoard(t, Options{})
	if _, err := b.AddWidget(ctx, bento.Widget{}); err != nil {
		t.Fatal(err)
	}
	remote := b.Snapshot()
	sink.docs = nil

	if b.ApplyRemote(remote) {
		t.Error("ApplyRemote(identical) = true, want false")
	}

	remote.Widgets = append(remote.Widgets, bento.Widget{ID: "x", Size: grid.Size1x1})
	remote.Layouts = grid.Project(append(remote.Layouts[grid.LG].Items, grid.Item{ID: "x", X: 1, W: 1, H: 1}), grid.DefaultBreakpoints)
	if !b.ApplyRemote(remote) {
		t.Error("ApplyRemote(changed) = false, want true")
	}
	if len(sink.docs) != 0 {
		t.Errorf("sink received %d documents, want 0", len(sink.docs))
	}
	if _, ok := b.Snapshot().Widget("x"); !ok {
		t.Error("remote widget not applied")
	}
}

func TestViewIsStatic(t *testing.T) {
	b, _ := newTestBoard(t, Options{})
	if _, err := b.AddWidget(context.Background(), bento.Widget{}); err != nil {
		t.Fatal(err)
	}
	for bp, g := range b.View() {
		for _, it := range g.Items {
			if !it.Static {
				t.Errorf("%s item %s not static", bp, it.ID)
			}
		}
	}
	if b.Layout()[grid.LG].Items[0].Static {
		t.Error("View() leaked static flag into board state")
	}
}

func TestSinkFunc(t *testing.T) {
	var got string
	SinkFunc(func(d *bento.Document) { got = d.Username }).Submit(&bento.Document{Username: "ana"})
	if got != "ana" {
		t.Errorf("SinkFunc.Submit() passed %q, want %q", got, "ana")
	}
}
