package bento

import (
	"fmt"
	"slices"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
)

// RepairKind names one class of fix applied by Repair.
type RepairKind string

// Fixes applied by Repair.
const (
	RepairDuplicateWidget   RepairKind = "duplicate_widget"
	RepairEmptyWidgetID     RepairKind = "empty_widget_id"
	RepairInvalidSize       RepairKind = "invalid_size"
	RepairInvalidImageFit   RepairKind = "invalid_image_fit"
	RepairUnknownBreakpoint RepairKind = "unknown_breakpoint"
	RepairUnknownItem       RepairKind = "unknown_item"
	RepairDuplicateItem     RepairKind = "duplicate_item"
	RepairClampedItem       RepairKind = "clamped_item"
	RepairOrphanDropped     RepairKind = "orphan_dropped"
	RepairOrphanAdopted     RepairKind = "orphan_adopted"
	RepairMissingBreakpoint RepairKind = "missing_breakpoint"
	RepairRederived         RepairKind = "rederived_breakpoint"
)

// Fix records one fix applied by Repair.
type Fix struct {
	Kind       RepairKind      `json:"kind"`
	Breakpoint grid.Breakpoint `json:"breakpoint,omitempty"`
	ID         string          `json:"id,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

func (r Fix) String() string {
	s := string(r.Kind)
	if r.Breakpoint != "" {
		s += " " + string(r.Breakpoint)
	}
	if r.ID != "" {
		s += " " + r.ID
	}
	if r.Detail != "" {
		s += ": " + r.Detail
	}
	return s
}

// RepairOptions tunes Repair.
type RepairOptions struct {
	// AdoptOrphans places widgets that have no canonical item at the first
	// free canonical cell instead of dropping them.
	AdoptOrphans bool
}

// Repair returns a copy of d whose layouts satisfy the grid invariants for
// bs, together with the list of fixes it needed. d is not modified.
//
// Widgets are deduplicated by id. Layout items are dropped when their id has
// no widget or repeats within a grid, and clamped into their grid's bounds.
// A widget without a canonical item is dropped, or placed when
// opts.AdoptOrphans is set. Finally every breakpoint that is missing, or
// whose ids differ from the canonical grid, is re-derived from the
// canonical grid. Grids that already agree keep their arrangement.
func Repair(d *Document, bs grid.Breakpoints, opts RepairOptions) (*Document, []Fix) {
	var fixes []Fix
	fix := func(kind RepairKind, bp grid.Breakpoint, id, format string, args ...any) {
		fixes = append(fixes, Fix{Kind: kind, Breakpoint: bp, ID: id, Detail: fmt.Sprintf(format, args...)})
	}

	out := &Document{Username: d.Username, UpdatedAt: d.UpdatedAt, Layouts: make(grid.Layout, len(bs))}
	canon := bs.Canonical()

	seen := make(map[string]bool, len(d.Widgets))
	for _, w := range d.Widgets {
		switch {
		case w.ID == "":
			fix(RepairEmptyWidgetID, "", "", "widget without id dropped")
			continue
		case seen[w.ID]:
			fix(RepairDuplicateWidget, "", w.ID, "later copy dropped")
			continue
		}
		seen[w.ID] = true
		if !validImageFit(w.ImageFit) {
			fix(RepairInvalidImageFit, "", w.ID, "%q replaced by %q", w.ImageFit, ImageFitCover)
			w.ImageFit = ImageFitCover
		}
		out.Widgets = append(out.Widgets, w)
	}

	for _, bp := range d.Layouts.Names() {
		if _, ok := bs.Lookup(bp); !ok {
			fix(RepairUnknownBreakpoint, bp, "", "grid dropped")
		}
	}

	for _, s := range bs {
		g, ok := d.Layouts[s.Name]
		if !ok {
			continue
		}
		items := make([]grid.Item, 0, len(g.Items))
		inGrid := make(map[string]bool, len(g.Items))
		for _, it := range g.Items {
			switch {
			case !seen[it.ID]:
				fix(RepairUnknownItem, s.Name, it.ID, "no widget with this id")
				continue
			case inGrid[it.ID]:
				fix(RepairDuplicateItem, s.Name, it.ID, "later copy dropped")
				continue
			}
			inGrid[it.ID] = true
			c := grid.Clamp(it, s.Columns)
			if !c.SameGeometry(it) {
				fix(RepairClampedItem, s.Name, it.ID, "%v moved to %v", it, c)
			}
			items = append(items, c)
		}
		out.Layouts[s.Name] = grid.Grid{Columns: s.Columns, Items: items}
	}

	cg, ok := out.Layouts[canon.Name]
	if !ok {
		fix(RepairMissingBreakpoint, canon.Name, "", "canonical grid missing")
		cg = grid.Grid{Columns: canon.Columns, Items: []grid.Item{}}
	}
	var kept []Widget
	for _, w := range out.Widgets {
		if cg.Index(w.ID) >= 0 {
			kept = append(kept, w)
			continue
		}
		if !opts.AdoptOrphans {
			fix(RepairOrphanDropped, canon.Name, w.ID, "widget has no canonical item")
			continue
		}
		it := grid.NewItem(w.ID)
		if width, height, ok := w.Size.Dims(); ok {
			it.W, it.H = width, height
		}
		it = grid.Place(cg.Items, it, canon.Columns)
		cg.Items = append(cg.Items, it)
		fix(RepairOrphanAdopted, canon.Name, w.ID, "placed at %v", it)
		kept = append(kept, w)
	}
	out.Widgets = kept
	out.Layouts[canon.Name] = cg

	for i, w := range out.Widgets {
		if w.Size.Valid() {
			continue
		}
		it := cg.Items[cg.Index(w.ID)]
		size, ok := grid.SizeOf(it.W, it.H)
		if !ok {
			size = grid.DefaultSize
		}
		fix(RepairInvalidSize, "", w.ID, "%q replaced by %q", w.Size, size)
		out.Widgets[i].Size = size
	}

	want := cg.IDs()
	ordered := grid.ReadingOrder(cg.Items)
	for _, s := range bs[1:] {
		g, ok := out.Layouts[s.Name]
		switch {
		case !ok:
			fix(RepairMissingBreakpoint, s.Name, "", "derived from %s", canon.Name)
		case !slices.Equal(g.IDs(), want):
			fix(RepairRederived, s.Name, "", "ids differ from %s", canon.Name)
		default:
			continue
		}
		out.Layouts[s.Name] = grid.Grid{Columns: s.Columns, Items: grid.Reflow(ordered, s.Columns)}
	}

	if out.Widgets == nil {
		out.Widgets = []Widget{}
	}
	return out, fixes
}
