package grid

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/bentogrid/pkg/errors"
)

// Breakpoint names a viewport width tier.
type Breakpoint string

// Known breakpoint names, widest first.
const (
	LG  Breakpoint = "lg"
	MD  Breakpoint = "md"
	SM  Breakpoint = "sm"
	XS  Breakpoint = "xs"
	XXS Breakpoint = "xxs"
)

var knownBreakpoints = []Breakpoint{LG, MD, SM, XS, XXS}

// MaxRow is the largest row coordinate (exclusive) an item may reach.
// Decoded geometry is clamped below it so occupancy scans stay bounded
// even for pathological persisted data.
const MaxRow = 1 << 14

// ParseBreakpoint converts a name into a known Breakpoint.
func ParseBreakpoint(s string) (Breakpoint, error) {
	b := Breakpoint(s)
	if !b.Known() {
		return "", errors.New(errors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q", s)
	}
	return b, nil
}

// Known reports whether b is one of lg, md, sm, xs, xxs.
func (b Breakpoint) Known() bool {
	return slices.Contains(knownBreakpoints, b)
}

// Item is one widget's placement on a single breakpoint grid.
// Field names match the persisted react-grid-layout format.
type Item struct {
	ID     string `json:"i" bson:"i"`
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	W      int    `json:"w" bson:"w"`
	H      int    `json:"h" bson:"h"`
	MinW   int    `json:"minW,omitempty" bson:"minW,omitempty"`
	MinH   int    `json:"minH,omitempty" bson:"minH,omitempty"`
	Static bool   `json:"static,omitempty" bson:"static,omitempty"`
}

// NewItem returns a 1×1 item at the origin.
func NewItem(id string) Item {
	return Item{ID: id, W: 1, H: 1, MinW: 1, MinH: 1}
}

// Right returns the first column to the right of the item.
func (it Item) Right() int { return it.X + it.W }

// Bottom returns the first row below the item.
func (it Item) Bottom() int { return it.Y + it.H }

// Overlaps reports whether the cell rectangles of it and o intersect.
func (it Item) Overlaps(o Item) bool {
	return it.X < o.Right() && o.X < it.Right() && it.Y < o.Bottom() && o.Y < it.Bottom()
}

// SameGeometry reports whether it and o share id and (x, y, w, h).
func (it Item) SameGeometry(o Item) bool {
	return it.ID == o.ID && it.X == o.X && it.Y == o.Y && it.W == o.W && it.H == o.H
}

// String renders the item as "id(x,y,w,h)".
func (it Item) String() string {
	return fmt.Sprintf("%s(%d,%d,%d,%d)", it.ID, it.X, it.Y, it.W, it.H)
}

// compareReading orders items top-to-bottom, then left-to-right.
func compareReading(a, b Item) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// ReadingOrder returns a copy of items sorted by (y, x). Items sharing an
// anchor keep their input order.
func ReadingOrder(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compareReading)
	return out
}

// Spec declares one breakpoint of a responsive grid.
type Spec struct {
	Name     Breakpoint `json:"name" toml:"name"`
	Columns  int        `json:"columns" toml:"columns"`
	MinWidth int        `json:"min_width" toml:"min_width"` // viewport width in px where the tier starts
}

// Breakpoints is an ordered breakpoint table, widest first.
// The first entry is the canonical breakpoint.
type Breakpoints []Spec

// DefaultBreakpoints is the five-tier table used by the profile page.
var DefaultBreakpoints = Breakpoints{
	{Name: LG, Columns: 4, MinWidth: 1200},
	{Name: MD, Columns: 4, MinWidth: 996},
	{Name: SM, Columns: 2, MinWidth: 768},
	{Name: XS, Columns: 2, MinWidth: 480},
	{Name: XXS, Columns: 1, MinWidth: 0},
}

// Canonical returns the widest breakpoint.
func (bs Breakpoints) Canonical() Spec {
	if len(bs) == 0 {
		return Spec{}
	}
	return bs[0]
}

// Lookup returns the spec for name.
func (bs Breakpoints) Lookup(name Breakpoint) (Spec, bool) {
	for _, s := range bs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns breakpoint names in table order.
func (bs Breakpoints) Names() []Breakpoint {
	names := make([]Breakpoint, len(bs))
	for i, s := range bs {
		names[i] = s.Name
	}
	return names
}

// ForWidth returns the breakpoint active at a viewport width: the first
// entry whose MinWidth is not above width, or the narrowest one.
func (bs Breakpoints) ForWidth(width int) Spec {
	for _, s := range bs {
		if width >= s.MinWidth {
			return s
		}
	}
	return bs[len(bs)-1]
}

// Validate checks the table is usable: non-empty, known unique names,
// positive column counts, and no breakpoint wider than the canonical one.
func (bs Breakpoints) Validate() error {
	if len(bs) == 0 {
		return errors.New(errors.ErrCodeInvalidBreakpoint, "at least one breakpoint is required")
	}
	seen := make(map[Breakpoint]bool, len(bs))
	for _, s := range bs {
		if !s.Name.Known() {
			return errors.New(errors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q", s.Name)
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidBreakpoint, "duplicate breakpoint %q", s.Name)
		}
		seen[s.Name] = true
		if s.Columns < 1 {
			return errors.New(errors.ErrCodeInvalidBreakpoint, "breakpoint %q: columns must be >= 1, got %d", s.Name, s.Columns)
		}
		if s.Columns > bs[0].Columns {
			return errors.New(errors.ErrCodeInvalidBreakpoint, "breakpoint %q is wider than canonical %q", s.Name, bs[0].Name)
		}
	}
	return nil
}

// Grid is one breakpoint's projection of the layout.
// Item order carries no meaning.
type Grid struct {
	Columns int    `json:"columns"`
	Items   []Item `json:"items"`
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	return Grid{Columns: g.Columns, Items: slices.Clone(g.Items)}
}

// Index returns the position of id in g.Items, or -1.
func (g Grid) Index(id string) int {
	return slices.IndexFunc(g.Items, func(it Item) bool { return it.ID == id })
}

// IDs returns the sorted item ids of g.
func (g Grid) IDs() []string {
	ids := make([]string, len(g.Items))
	for i, it := range g.Items {
		ids[i] = it.ID
	}
	slices.Sort(ids)
	return ids
}

// Rows returns the number of rows the grid spans.
func (g Grid) Rows() int {
	rows := 0
	for _, it := range g.Items {
		rows = max(rows, it.Bottom())
	}
	return rows
}

// Layout maps each breakpoint to its grid.
type Layout map[Breakpoint]Grid

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for bp, g := range l {
		out[bp] = g.Clone()
	}
	return out
}

// Names returns the breakpoints present in l, sorted by name.
func (l Layout) Names() []Breakpoint {
	names := make([]Breakpoint, 0, len(l))
	for bp := range l {
		names = append(names, bp)
	}
	slices.Sort(names)
	return names
}

// Items returns the persisted form of l: breakpoint name to item list.
func (l Layout) Items() map[string][]Item {
	out := make(map[string][]Item, len(l))
	for bp, g := range l {
		items := slices.Clone(g.Items)
		if items == nil {
			items = []Item{}
		}
		out[string(bp)] = items
	}
	return out
}

// WithStatic returns a copy of l with every item's Static flag set to
// static. Used to hand view-only layouts to a renderer.
func (l Layout) WithStatic(static bool) Layout {
	out := l.Clone()
	for bp, g := range out {
		for i := range g.Items {
			g.Items[i].Static = static
		}
		out[bp] = g
	}
	return out
}
