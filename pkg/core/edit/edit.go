// Package edit implements the user-facing layout mutations: insert, remove,
// resize, and committing a dragged candidate grid.
//
// Every operation takes a layout by value and returns a new one; the input
// is never modified. Insert and Remove restore the layout invariants (no
// overlap, items inside their columns, same ids everywhere). Resize applies
// the new span in place and only re-packs when asked to.
package edit

import (
	"slices"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
)

// Insert places it on the canonical grid at the first free cell and
// re-projects every breakpoint from the result. Projection reflows the
// canonical grid too, so items dragged away from their packed position on
// the canonical breakpoint move back into reading order. A missing canonical
// grid is treated as empty. If the id is already present the layout is
// returned unchanged.
func Insert(l grid.Layout, bs grid.Breakpoints, it grid.Item) grid.Layout {
	canon := bs.Canonical()
	items := l[canon.Name].Items
	if slices.ContainsFunc(items, func(o grid.Item) bool { return o.ID == it.ID }) {
		return l.Clone()
	}

	placed := grid.Place(items, it, canon.Columns)
	next := append(slices.Clone(items), placed)
	return grid.Project(next, bs)
}

// Remove deletes id from every grid and reflows each remainder so the hole
// left behind is closed.
func Remove(l grid.Layout, id string) grid.Layout {
	out := make(grid.Layout, len(l))
	for bp, g := range l {
		kept := slices.DeleteFunc(slices.Clone(g.Items), func(it grid.Item) bool { return it.ID == id })
		out[bp] = grid.Grid{Columns: g.Columns, Items: grid.Reflow(kept, g.Columns)}
	}
	return out
}

// ResizeOptions tunes Resize.
type ResizeOptions struct {
	// Reflow re-packs every grid after the new span is applied. Without it
	// a grown item may overlap its neighbours until the next compaction.
	Reflow bool
}

// Resize sets the span of id to the dimensions of size in every grid,
// clamping the width to each grid's columns. An item that would cross the
// right edge is shifted left until it fits. It reports false and returns
// the layout unchanged when size is not part of the vocabulary or no grid
// holds id.
func Resize(l grid.Layout, id string, size grid.Size, opts ResizeOptions) (grid.Layout, bool) {
	w, h, ok := size.Dims()
	if !ok {
		return l.Clone(), false
	}

	out := l.Clone()
	found := false
	for bp, g := range out {
		i := g.Index(id)
		if i < 0 {
			continue
		}
		found = true
		it := g.Items[i]
		it.W, it.H = min(w, max(g.Columns, 1)), h
		it.X = min(it.X, max(g.Columns, 1)-it.W)
		it.MinW, it.MinH = min(it.MinW, it.W), min(it.MinH, it.H)
		g.Items[i] = it
		if opts.Reflow {
			g.Items = grid.Reflow(g.Items, g.Columns)
		}
		out[bp] = g
	}
	if !found {
		return l.Clone(), false
	}
	return out, true
}

// Commit accepts candidate as the new arrangement of breakpoint bp. The
// candidate must hold exactly the ids the grid holds now; item geometry is
// clamped into the grid's columns. It reports false, leaving the layout as
// it was, when the candidate is rejected or describes the current
// arrangement already.
func Commit(l grid.Layout, bp grid.Breakpoint, candidate []grid.Item) (grid.Layout, bool) {
	cur, ok := l[bp]
	if !ok {
		return l.Clone(), false
	}

	items := make([]grid.Item, len(candidate))
	for i, it := range candidate {
		items[i] = grid.Clamp(it, cur.Columns)
	}
	next := grid.Grid{Columns: cur.Columns, Items: items}
	if !slices.Equal(next.IDs(), cur.IDs()) || grid.EqualItems(cur.Items, items) {
		return l.Clone(), false
	}

	out := l.Clone()
	out[bp] = next
	return out, true
}
