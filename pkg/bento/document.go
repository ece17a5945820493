// Package bento defines the persisted profile document: the widget list and
// its per-breakpoint layouts.
//
// Stored documents come in two shapes. Current writers store widgets and
// layouts as structured values; older ones stored both as JSON-encoded
// strings. [Decode] accepts either and normalizes to a [Document] before any
// layout code sees it. [Repair] then restores the layout invariants on
// whatever was decoded.
package bento

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// Document is one user's profile page in decoded form.
type Document struct {
	Username  string
	Widgets   []Widget
	Layouts   grid.Layout
	UpdatedAt time.Time
}

// New returns an empty document with an empty grid for every breakpoint.
func New(username string, bs grid.Breakpoints) *Document {
	return &Document{
		Username: username,
		Widgets:  []Widget{},
		Layouts:  grid.Empty(bs),
	}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	return &Document{
		Username:  d.Username,
		Widgets:   slices.Clone(d.Widgets),
		Layouts:   d.Layouts.Clone(),
		UpdatedAt: d.UpdatedAt,
	}
}

// Widget returns the widget with the given id.
func (d *Document) Widget(id string) (Widget, bool) {
	i := d.widgetIndex(id)
	if i < 0 {
		return Widget{}, false
	}
	return d.Widgets[i], true
}

func (d *Document) widgetIndex(id string) int {
	return slices.IndexFunc(d.Widgets, func(w Widget) bool { return w.ID == id })
}

// Record is the storage form of a Document, shared by the JSON and BSON
// encodings.
type Record struct {
	Username  string                 `json:"username" bson:"username"`
	Widgets   []Widget               `json:"widgets" bson:"widgets"`
	Layouts   map[string][]grid.Item `json:"layouts" bson:"layouts"`
	UpdatedAt time.Time              `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// Record converts d to its storage form. Slices are never nil so that an
// empty document encodes as [] and {} rather than null.
func (d *Document) Record() Record {
	widgets := slices.Clone(d.Widgets)
	if widgets == nil {
		widgets = []Widget{}
	}
	return Record{
		Username:  d.Username,
		Widgets:   widgets,
		Layouts:   d.Layouts.Items(),
		UpdatedAt: d.UpdatedAt,
	}
}

// MarshalJSON encodes d as its Record.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Record())
}

// FromRecord builds a Document from its storage form. Breakpoints not
// declared in bs are dropped; the columns of each grid come from bs.
func FromRecord(r Record, bs grid.Breakpoints) *Document {
	return &Document{
		Username:  r.Username,
		Widgets:   slices.Clone(r.Widgets),
		Layouts:   LayoutFromItems(r.Layouts, bs),
		UpdatedAt: r.UpdatedAt,
	}
}

// LayoutFromItems attaches column counts from bs to persisted item lists.
func LayoutFromItems(m map[string][]grid.Item, bs grid.Breakpoints) grid.Layout {
	l := make(grid.Layout, len(m))
	for name, items := range m {
		s, ok := bs.Lookup(grid.Breakpoint(name))
		if !ok {
			continue
		}
		l[s.Name] = grid.Grid{Columns: s.Columns, Items: slices.Clone(items)}
	}
	return l
}

type wireDocument struct {
	Username  string          `json:"username"`
	Widgets   json.RawMessage `json:"widgets"`
	Layouts   json.RawMessage `json:"layouts"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Decode parses a JSON document. widgets and layouts may each be a
// structured value or a JSON string holding one; missing or null values
// decode as empty.
func Decode(data []byte, bs grid.Breakpoints) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}

	r := Record{Username: w.Username, UpdatedAt: w.UpdatedAt}
	if err := DecodeLegacy(w.Widgets, &r.Widgets); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode widgets")
	}
	if err := DecodeLegacy(w.Layouts, &r.Layouts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layouts")
	}
	if r.Widgets == nil {
		r.Widgets = []Widget{}
	}
	return FromRecord(r, bs), nil
}

// DecodeLegacy unmarshals raw into v, unwrapping one level of JSON string
// encoding first if raw is a string. Empty input, null and "" leave v
// untouched.
func DecodeLegacy(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = []byte(s)
	}
	return json.Unmarshal(raw, v)
}

// Encode renders d as indented JSON.
func Encode(d *Document) ([]byte, error) {
	data, err := json.MarshalIndent(d.Record(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return append(data, '\n'), nil
}
