package grid

import (
	"fmt"
	"slices"
	"strings"
)

// ViolationKind classifies a broken layout invariant.
type ViolationKind string

// Invariant violations reported by Validate.
const (
	ViolationOverlap   ViolationKind = "overlap"
	ViolationBounds    ViolationKind = "bounds"
	ViolationIDSet     ViolationKind = "id_set"
	ViolationDuplicate ViolationKind = "duplicate"
	ViolationGap       ViolationKind = "gap"
)

// Violation describes one broken invariant.
type Violation struct {
	Kind       ViolationKind `json:"kind"`
	Breakpoint Breakpoint    `json:"breakpoint"`
	IDs        []string      `json:"ids,omitempty"`
	Message    string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Breakpoint, v.Kind, v.Message)
}

// Validate checks every grid of l against the layout invariants: no
// overlaps, items inside the columns, unique ids, no empty row above an
// occupied row, and the same id set as the canonical grid.
func Validate(l Layout, canonical Breakpoint) []Violation {
	var out []Violation
	want := l[canonical].IDs()
	for _, bp := range l.Names() {
		g := l[bp]
		out = append(out, ValidateGrid(bp, g)...)
		if bp == canonical {
			continue
		}
		if got := g.IDs(); !slices.Equal(got, want) {
			out = append(out, Violation{
				Kind:       ViolationIDSet,
				Breakpoint: bp,
				Message:    fmt.Sprintf("ids [%s] differ from %s [%s]", strings.Join(got, ","), canonical, strings.Join(want, ",")),
			})
		}
	}
	return out
}

// ValidateGrid checks a single grid. The gap check only applies to grids
// produced by Reflow; raw drag output may legitimately contain gaps.
func ValidateGrid(bp Breakpoint, g Grid) []Violation {
	var out []Violation
	seen := make(map[string]bool, len(g.Items))
	for i, it := range g.Items {
		if seen[it.ID] {
			out = append(out, Violation{
				Kind: ViolationDuplicate, Breakpoint: bp, IDs: []string{it.ID},
				Message: fmt.Sprintf("id %s appears more than once", it.ID),
			})
		}
		seen[it.ID] = true

		if it.X < 0 || it.Y < 0 || it.W < 1 || it.H < 1 || it.Right() > g.Columns {
			out = append(out, Violation{
				Kind: ViolationBounds, Breakpoint: bp, IDs: []string{it.ID},
				Message: fmt.Sprintf("%s does not fit %d columns", it, g.Columns),
			})
		}

		for _, o := range g.Items[i+1:] {
			if it.Overlaps(o) {
				out = append(out, Violation{
					Kind: ViolationOverlap, Breakpoint: bp, IDs: []string{it.ID, o.ID},
					Message: fmt.Sprintf("%s overlaps %s", it, o),
				})
			}
		}
	}

	rows := make([]bool, min(g.Rows(), MaxRow))
	for _, it := range g.Items {
		for row := max(it.Y, 0); row < min(it.Bottom(), len(rows)); row++ {
			rows[row] = true
		}
	}
	for row, occupied := range rows {
		if !occupied {
			out = append(out, Violation{
				Kind: ViolationGap, Breakpoint: bp,
				Message: fmt.Sprintf("row %d is empty above occupied rows", row),
			})
		}
	}
	return out
}

// Clamp moves and shrinks it so that it lies inside a grid of the given
// column count and above MaxRow.
func Clamp(it Item, columns int) Item {
	it = normalizeSpan(it, columns)
	it.X = min(max(it.X, 0), max(columns, 1)-it.W)
	it.Y = min(max(it.Y, 0), MaxRow-it.H)
	return it
}
