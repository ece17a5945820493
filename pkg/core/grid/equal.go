package grid

import (
	"cmp"
	"slices"
)

// Equal reports whether a and b describe the same arrangement: the same
// breakpoint names and, per breakpoint, the same ids at the same
// (x, y, w, h). Item order within a grid is ignored.
func Equal(a, b Layout) bool {
	if len(a) != len(b) {
		return false
	}
	for bp, ga := range a {
		gb, ok := b[bp]
		if !ok || !EqualItems(ga.Items, gb.Items) {
			return false
		}
	}
	return true
}

// EqualItems compares two item lists by id and geometry, ignoring order.
func EqualItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := byID(a), byID(b)
	for i := range sa {
		if !sa[i].SameGeometry(sb[i]) {
			return false
		}
	}
	return true
}

func byID(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortFunc(out, func(x, y Item) int { return cmp.Compare(x.ID, y.ID) })
	return out
}
