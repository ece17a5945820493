package grid

// Project derives a full layout from the canonical grid's items: the items
// are put in reading order once, then reflowed independently for every
// breakpoint in bs (the canonical one included). All breakpoints therefore
// share one source of truth for ordering.
func Project(canonical []Item, bs Breakpoints) Layout {
	ordered := ReadingOrder(canonical)
	out := make(Layout, len(bs))
	for _, s := range bs {
		out[s.Name] = Grid{Columns: s.Columns, Items: Reflow(ordered, s.Columns)}
	}
	return out
}

// ProjectFrom re-derives every breakpoint of l from its canonical grid.
// A missing canonical grid projects to empty grids.
func ProjectFrom(l Layout, bs Breakpoints) Layout {
	return Project(l[bs.Canonical().Name].Items, bs)
}

// Empty returns a layout with an empty grid for every breakpoint in bs.
func Empty(bs Breakpoints) Layout {
	return Project(nil, bs)
}
