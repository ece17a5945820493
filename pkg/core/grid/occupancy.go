package grid

// Cell is one (column, row) grid coordinate.
type Cell struct {
	Col, Row int
}

// Occupancy is the set of cells covered by placed items.
type Occupancy struct {
	cells  map[Cell]struct{}
	bottom int // first row below every marked cell
}

// NewOccupancy marks the footprint of every item.
func NewOccupancy(items []Item) *Occupancy {
	o := &Occupancy{cells: make(map[Cell]struct{}, len(items))}
	for _, it := range items {
		o.Mark(it.X, it.Y, it.W, it.H)
	}
	return o
}

// Mark records the w×h footprint anchored at (x, y) as occupied.
func (o *Occupancy) Mark(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			o.cells[Cell{col, row}] = struct{}{}
		}
	}
	o.bottom = max(o.bottom, y+h)
}

// Occupied reports whether a single cell is covered.
func (o *Occupancy) Occupied(col, row int) bool {
	_, ok := o.cells[Cell{col, row}]
	return ok
}

// Free reports whether the whole w×h footprint at (x, y) is uncovered.
func (o *Occupancy) Free(x, y, w, h int) bool {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if o.Occupied(col, row) {
				return false
			}
		}
	}
	return true
}

// Fits reports whether a w×h footprint anchored at (x, y) is free and lies
// inside a grid of the given column count.
func (o *Occupancy) Fits(x, y, w, h, columns int) bool {
	if x < 0 || y < 0 || w < 1 || h < 1 || x+w > columns {
		return false
	}
	return o.Free(x, y, w, h)
}

// Len returns the number of occupied cells.
func (o *Occupancy) Len() int { return len(o.cells) }

// Bottom returns the first row below every occupied cell.
func (o *Occupancy) Bottom() int { return o.bottom }

// firstFit scans row-major from (fromX, fromY) for the first anchor where a
// w×h footprint fits within columns. Rows at or below Bottom are empty, so
// the scan ends no later than one row past max(fromY, Bottom).
func (o *Occupancy) firstFit(fromX, fromY, columns, w, h int) (x, y int) {
	last := max(fromY, o.bottom) + 1
	for y = fromY; y <= last; y++ {
		start := 0
		if y == fromY {
			start = fromX
		}
		for x = start; x+w <= columns; x++ {
			if o.Fits(x, y, w, h, columns) {
				return x, y
			}
		}
	}
	return 0, last + 1
}
