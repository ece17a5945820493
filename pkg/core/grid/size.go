package grid

import "github.com/matzehuels/bentogrid/pkg/errors"

// Size is a named widget footprint from the fixed size vocabulary shared
// with the UI and persisted documents.
type Size string

// Supported widget sizes, written as columns x rows.
const (
	Size1x1 Size = "1x1"
	Size2x1 Size = "2x1"
	Size1x2 Size = "1x2"
	Size2x2 Size = "2x2"
	Size3x1 Size = "3x1"
)

// DefaultSize is the footprint of a newly created widget.
const DefaultSize = Size1x1

type dims struct{ w, h int }

var sizeTable = map[Size]dims{
	Size1x1: {1, 1},
	Size2x1: {2, 1},
	Size1x2: {1, 2},
	Size2x2: {2, 2},
	Size3x1: {3, 1},
}

// Sizes lists the vocabulary in display order.
func Sizes() []Size {
	return []Size{Size1x1, Size2x1, Size1x2, Size2x2, Size3x1}
}

// ParseSize validates s against the vocabulary.
func ParseSize(s string) (Size, error) {
	if _, ok := sizeTable[Size(s)]; !ok {
		return "", errors.New(errors.ErrCodeInvalidSize, "unknown widget size %q", s)
	}
	return Size(s), nil
}

// Dims returns the (w, h) footprint of s. ok is false for names outside
// the vocabulary.
func (s Size) Dims() (w, h int, ok bool) {
	d, ok := sizeTable[s]
	return d.w, d.h, ok
}

// Valid reports whether s is in the vocabulary.
func (s Size) Valid() bool {
	_, ok := sizeTable[s]
	return ok
}

// SizeOf returns the vocabulary name for a (w, h) footprint.
func SizeOf(w, h int) (Size, bool) {
	for s, d := range sizeTable {
		if d.w == w && d.h == h {
			return s, true
		}
	}
	return "", false
}
