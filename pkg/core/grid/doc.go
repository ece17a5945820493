// Package grid implements the responsive grid layout engine.
//
// # Overview
//
// Widgets are rectangular [Item] values placed on an integer grid: (X, Y) is
// the top-left cell and (W, H) the span in cells. Each named [Breakpoint]
// (lg, md, sm, xs, xxs) has its own [Grid] with a fixed column count, and a
// [Layout] maps every breakpoint to its grid. All grids of a layout carry the
// same set of item ids; only their geometry differs.
//
// The widest breakpoint is canonical. Narrower breakpoints are never edited
// independently: they are re-derived from the canonical grid by [Project],
// which reflows the canonical reading order into each column count.
//
// # Algorithms
//
//   - [NewOccupancy] builds the set of occupied cells for a list of items.
//   - [FindNextFreeCell] returns the first row-major cell where a w×h
//     footprint fits. Used when a widget is created.
//   - [Reflow] re-packs items for a column count: widths are clamped, items
//     are laid out in reading order (y, then x), nothing overlaps and no
//     empty row is left above an occupied one.
//   - [Project] runs Reflow once per breakpoint from the canonical grid.
//   - [Equal] compares two layouts structurally, ignoring item order.
//   - [Validate] reports violations of the layout invariants.
//
// # Example
//
//	canonical := []grid.Item{
//	    {ID: "a", X: 0, Y: 0, W: 2, H: 1},
//	    {ID: "b", X: 2, Y: 0, W: 2, H: 1},
//	}
//	layouts := grid.Project(canonical, grid.DefaultBreakpoints)
//	// layouts[grid.XXS] stacks a above b, each one column wide
//
// # Concurrency
//
// Every function in this package is pure: inputs are never mutated and
// results are freshly allocated, so calls are safe from any goroutine.
package grid
