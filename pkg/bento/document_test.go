package bento

import (
	"strings"
	"testing"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantWidgets int
		wantGrids   []grid.Breakpoint
		wantItems   int
	}{
		{
			name:        "structured",
			input:       `{"username":"ana","widgets":[{"id":"a","size":"1x1"}],"layouts":{"lg":[{"i":"a","x":0,"y":0,"w":1,"h":1}]}}`,
			wantWidgets: 1,
			wantGrids:   []grid.Breakpoint{grid.LG},
			wantItems:   1,
		},
		{
			name:        "string layouts",
			input:       `{"username":"ana","widgets":[{"id":"a","size":"1x1"}],"layouts":"{\"lg\":[{\"i\":\"a\",\"x\":0,\"y\":0,\"w\":1,\"h\":1}],\"sm\":[{\"i\":\"a\",\"x\":0,\"y\":0,\"w\":1,\"h\":1}]}"}`,
			wantWidgets: 1,
			wantGrids:   []grid.Breakpoint{grid.LG, grid.SM},
			wantItems:   1,
		},
		{
			name:        "string widgets",
			input:       `{"username":"ana","widgets":"[{\"id\":\"a\",\"size\":\"2x1\"},{\"id\":\"b\",\"size\":\"1x1\"}]","layouts":{}}`,
			wantWidgets: 2,
		},
		{
			name:  "null layouts",
			input: `{"username":"ana","widgets":null,"layouts":null}`,
		},
		{
			name:  "missing fields",
			input: `{"username":"ana"}`,
		},
		{
			name:  "empty string layouts",
			input: `{"username":"ana","layouts":""}`,
		},
		{
			name:      "unknown breakpoint dropped",
			input:     `{"username":"ana","layouts":{"xl":[],"md":[]}}`,
			wantGrids: []grid.Breakpoint{grid.MD},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode([]byte(tt.input), grid.DefaultBreakpoints)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if d.Username != "ana" {
				t.Errorf("Username = %q, want %q", d.Username, "ana")
			}
			if d.Widgets == nil {
				t.Error("Widgets is nil, want empty slice")
			}
			if len(d.Widgets) != tt.wantWidgets {
				t.Errorf("len(Widgets) = %d, want %d", len(d.Widgets), tt.wantWidgets)
			}
			got := d.Layouts.Names()
			if len(got) != len(tt.wantGrids) {
				t.Fatalf("Layouts = %v, want %v", got, tt.wantGrids)
			}
			for i, bp := range tt.wantGrids {
				if got[i] != bp {
					t.Errorf("Layouts[%d] = %s, want %s", i, got[i], bp)
				}
			}
			if g, ok := d.Layouts[grid.LG]; ok {
				if g.Columns != 4 {
					t.Errorf("lg columns = %d, want 4", g.Columns)
				}
				if len(g.Items) != tt.wantItems {
					t.Errorf("lg items = %d, want %d", len(g.Items), tt.wantItems)
				}
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"layouts":"{broken"}`,
		`{"widgets":42}`,
	}
	for _, in := range inputs {
		_, err := Decode([]byte(in), grid.DefaultBreakpoints)
		if !errors.Is(err, errors.ErrCodeInvalidDocument) {
			t.Errorf("Decode(%q) error = %v, want %s", in, err, errors.ErrCodeInvalidDocument)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	d := &Document{Username: "ana"}

	data, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"username": "ana"`, `"widgets": []`, `"layouts": {}`} {
		if !strings.Contains(s, want) {
			t.Errorf("Encode() = %s, missing %s", s, want)
		}
	}
	if strings.Contains(s, "updatedAt") {
		t.Errorf("Encode() = %s, want zero updatedAt omitted", s)
	}
}

func TestEncodeDecode(t *testing.T) {
	d := New("ana", grid.DefaultBreakpoints)
	d.Widgets = []Widget{{ID: "a", Size: grid.Size2x1, URL: "https://example.com"}}
	d.Layouts = grid.Project([]grid.Item{{ID: "a", W: 2, H: 1}}, grid.DefaultBreakpoints)

	data, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data, grid.DefaultBreakpoints)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !grid.Equal(got.Layouts, d.Layouts) {
		t.Errorf("layouts differ after Encode/Decode")
	}
	if got.Widgets[0] != d.Widgets[0] {
		t.Errorf("widget = %+v, want %+v", got.Widgets[0], d.Widgets[0])
	}
}

func TestNew(t *testing.T) {
	d := New("ana", grid.DefaultBreakpoints)
	if len(d.Layouts) != len(grid.DefaultBreakpoints) {
		t.Errorf("New() has %d grids, want %d", len(d.Layouts), len(grid.DefaultBreakpoints))
	}
	if _, ok := d.Widget("a"); ok {
		t.Error("Widget() found a widget in an empty document")
	}
}
