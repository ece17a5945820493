package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

func sampleDocument(username string) *bento.Document {
	d := bento.New(username, grid.DefaultBreakpoints)
	d.Widgets = []bento.Widget{
		{ID: "a", Size: grid.Size2x1, URL: "https://example.com", ImageFit: bento.ImageFitCover},
		{ID: "b", Size: grid.Size1x1, CustomTitle: "Blog"},
	}
	d.Layouts = grid.Project([]grid.Item{
		{ID: "a", X: 0, Y: 0, W: 2, H: 1},
		{ID: "b", X: 2, Y: 0, W: 1, H: 1},
	}, grid.DefaultBreakpoints)
	return d
}

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "ana")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("Load() of missing user error = %v, want %s", err, errors.ErrCodeNotFound)
	}

	want := sampleDocument("ana")
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Username != "ana" {
		t.Errorf("Username = %q, want ana", got.Username)
	}
	if len(got.Widgets) != 2 || got.Widgets[0] != want.Widgets[0] || got.Widgets[1] != want.Widgets[1] {
		t.Errorf("Widgets = %+v, want %+v", got.Widgets, want.Widgets)
	}
	if !grid.Equal(got.Layouts, want.Layouts) {
		t.Errorf("Layouts = %v, want %v", got.Layouts, want.Layouts)
	}
	if got.UpdatedAt.IsZero() || time.Since(got.UpdatedAt) > time.Minute {
		t.Errorf("UpdatedAt = %v, want a recent time", got.UpdatedAt)
	}

	// Upsert replaces the document.
	want.Widgets = want.Widgets[:1]
	want.Layouts = grid.Project([]grid.Item{{ID: "a", W: 2, H: 1}}, grid.DefaultBreakpoints)
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, err = s.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Widgets) != 1 {
		t.Errorf("len(Widgets) = %d after upsert, want 1", len(got.Widgets))
	}
	if !grid.Equal(got.Layouts, want.Layouts) {
		t.Errorf("Layouts after upsert = %v, want %v", got.Layouts, want.Layouts)
	}

	// Loaded documents are independent copies.
	got.Widgets[0].URL = "https://changed.example"
	again, _ := s.Load(ctx, "ana")
	if again.Widgets[0].URL != "https://example.com" {
		t.Error("mutating a loaded document changed the store")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(grid.DefaultBreakpoints)
	defer s.Close()
	testStore(t, s)
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "docs"), grid.DefaultBreakpoints)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()
	testStore(t, s)

	if _, err := s.Load(context.Background(), "../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidUsername) {
		t.Errorf("Load() with traversal error = %v, want %s", err, errors.ErrCodeInvalidUsername)
	}
}

func TestDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	s := OpenDocumentFile(path, grid.DefaultBreakpoints)
	testStore(t, s)

	if p, _ := s.Path("anyone"); p != path {
		t.Errorf("Path() = %q, want %q", p, path)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the document", len(entries))
	}
}

func TestFileStoreLegacyDocument(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"username":"ana","widgets":"[{\"id\":\"a\",\"size\":\"1x1\"}]","layouts":"{\"lg\":[{\"i\":\"a\",\"x\":0,\"y\":0,\"w\":1,\"h\":1}]}"}`
	if err := os.WriteFile(filepath.Join(dir, "ana.json"), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(dir, grid.DefaultBreakpoints)
	if err != nil {
		t.Fatal(err)
	}

	d, err := s.Load(context.Background(), "ana")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(d.Widgets) != 1 || len(d.Layouts[grid.LG].Items) != 1 {
		t.Errorf("Load() = %+v, want one widget and one lg item", d)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "bento.db"), grid.DefaultBreakpoints)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStoreLegacyRow(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "bento.db"), grid.DefaultBreakpoints)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bento_configs (username, widgets, layouts, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"ana",
		`"[{\"id\":\"a\",\"size\":\"2x1\"}]"`,
		`"{\"lg\":[{\"i\":\"a\",\"x\":0,\"y\":0,\"w\":2,\"h\":1}]}"`,
		"", "")
	if err != nil {
		t.Fatal(err)
	}

	d, err := s.Load(ctx, "ana")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(d.Widgets) != 1 || d.Widgets[0].Size != grid.Size2x1 {
		t.Errorf("Widgets = %+v", d.Widgets)
	}
	if it := d.Layouts[grid.LG].Items; len(it) != 1 || it[0].W != 2 {
		t.Errorf("lg = %v", it)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default", Options{}, false},
		{"memory", Options{Backend: BackendMemory}, false},
		{"file", Options{Backend: BackendFile, Path: filepath.Join(dir, "docs")}, false},
		{"file without path", Options{Backend: BackendFile}, true},
		{"sqlite", Options{Backend: BackendSQLite, Path: filepath.Join(dir, "bento.db")}, false},
		{"mongo without uri", Options{Backend: BackendMongo}, true},
		{"unknown", Options{Backend: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
