package grid

// Reflow re-packs items for a grid of the given column count.
//
// Items are taken in reading order (y, then x; ties keep input order), their
// width is clamped to columns, and each one is placed at the first row-major
// cell where its footprint fits, scanning from the anchor of the item placed
// before it. The result:
//
//   - has no overlapping items and no item crossing the right edge
//   - leaves no fully empty row above an occupied row
//   - visits ids in the same reading order as the input
//   - is a fixed point: Reflow(Reflow(items, c), c) equals Reflow(items, c)
//
// Only the projection for this column count changes; items is not modified.
func Reflow(items []Item, columns int) []Item {
	columns = max(columns, 1)
	ordered := ReadingOrder(items)

	occ := &Occupancy{cells: make(map[Cell]struct{}, len(items))}
	out := make([]Item, 0, len(ordered))
	cx, cy := 0, 0
	for _, it := range ordered {
		it = normalizeSpan(it, columns)
		it.X, it.Y = occ.firstFit(cx, cy, columns, it.W, it.H)
		occ.Mark(it.X, it.Y, it.W, it.H)
		cx, cy = it.X, it.Y
		out = append(out, it)
	}
	return out
}

// Compact reflows every grid of l in place of its current geometry.
func Compact(l Layout) Layout {
	out := make(Layout, len(l))
	for bp, g := range l {
		out[bp] = Grid{Columns: g.Columns, Items: Reflow(g.Items, g.Columns)}
	}
	return out
}
