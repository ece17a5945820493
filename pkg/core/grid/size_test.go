package grid

import (
	"testing"

	"github.com/matzehuels/bentogrid/pkg/errors"
)

func TestSizeDims(t *testing.T) {
	tests := []struct {
		size Size
		w, h int
	}{
		{Size1x1, 1, 1},
		{Size2x1, 2, 1},
		{Size1x2, 1, 2},
		{Size2x2, 2, 2},
		{Size3x1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			w, h, ok := tt.size.Dims()
			if !ok || w != tt.w || h != tt.h {
				t.Errorf("Dims() = (%d, %d, %v), want (%d, %d, true)", w, h, ok, tt.w, tt.h)
			}
			if got, ok := SizeOf(tt.w, tt.h); !ok || got != tt.size {
				t.Errorf("SizeOf(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.size)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	for _, s := range Sizes() {
		if _, err := ParseSize(string(s)); err != nil {
			t.Errorf("ParseSize(%q) error = %v", s, err)
		}
	}

	for _, bad := range []string{"", "3x3", "1X1", "large", "4x1"} {
		_, err := ParseSize(bad)
		if !errors.Is(err, errors.ErrCodeInvalidSize) {
			t.Errorf("ParseSize(%q) error = %v, want %v", bad, err, errors.ErrCodeInvalidSize)
		}
		if Size(bad).Valid() {
			t.Errorf("Size(%q).Valid() = true, want false", bad)
		}
	}
}
