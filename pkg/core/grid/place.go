package grid

// FindNextFreeCell returns the first top-left cell, scanning rows top to
// bottom and columns left to right, where a w×h footprint fits among items
// without overlap and without crossing the right edge. w is clamped to
// columns. The grid grows downward without limit, so a cell always exists.
func FindNextFreeCell(items []Item, columns, w, h int) (x, y int) {
	columns = max(columns, 1)
	w = min(max(w, 1), columns)
	h = min(max(h, 1), MaxRow)
	return NewOccupancy(items).firstFit(0, 0, columns, w, h)
}

// Place returns it positioned at the first free cell of items for the given
// column count, with its width clamped to columns.
func Place(items []Item, it Item, columns int) Item {
	it = normalizeSpan(it, columns)
	it.X, it.Y = FindNextFreeCell(items, columns, it.W, it.H)
	return it
}

// normalizeSpan clamps w into [1, columns] and h into [1, MaxRow], and keeps
// the minimum sizes within the item's own span.
func normalizeSpan(it Item, columns int) Item {
	columns = max(columns, 1)
	it.W = min(max(it.W, 1), columns)
	it.H = min(max(it.H, 1), MaxRow)
	it.MinW = min(max(it.MinW, 1), it.W)
	it.MinH = min(max(it.MinH, 1), it.H)
	return it
}
