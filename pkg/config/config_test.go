package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/store"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Server.Addr)
	}
	if cfg.Sync.Debounce.Duration != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Sync.Debounce)
	}
	if len(cfg.Breakpoints) != 5 || cfg.Breakpoints.Canonical().Name != grid.LG {
		t.Errorf("Breakpoints = %v, want default table", cfg.Breakpoints)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvStore, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.Backend != store.BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvMongoURI, "")
	t.Setenv(EnvRedisURL, "")

	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
addr = "127.0.0.1:8080"
allowed_origins = ["http://localhost:3000"]

[store]
backend = "sqlite"
path = "bento.db"

[cache]
backend = "file"
dir = "/tmp/bentogrid"
ttl = "30s"
prefix = "dev:"

[sync]
debounce = "250ms"

[layout]
reflow_on_resize = true

[[breakpoints]]
name = "lg"
columns = 6
min_width = 1000

[[breakpoints]]
name = "xxs"
columns = 2
min_width = 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Store.Backend != store.BackendSQLite || cfg.Store.Path != "bento.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.TTL.Duration != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", cfg.Cache.TTL)
	}
	if cfg.Sync.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Sync.Debounce)
	}
	if !cfg.Layout.ReflowOnResize {
		t.Error("ReflowOnResize = false, want true")
	}
	want := grid.Breakpoints{
		{Name: grid.LG, Columns: 6, MinWidth: 1000},
		{Name: grid.XXS, Columns: 2, MinWidth: 0},
	}
	if len(cfg.Breakpoints) != len(want) {
		t.Fatalf("Breakpoints = %v, want %v", cfg.Breakpoints, want)
	}
	for i := range want {
		if cfg.Breakpoints[i] != want[i] {
			t.Errorf("Breakpoints[%d] = %v, want %v", i, cfg.Breakpoints[i], want[i])
		}
	}
	if got := cfg.Keyer().ProfileKey("alice"); got != "dev:bento:alice" {
		t.Errorf("ProfileKey() = %q, want dev:bento:alice", got)
	}
	if opts := cfg.StoreOptions(); opts.Backend != store.BackendSQLite || len(opts.Breakpoints) != 2 {
		t.Errorf("StoreOptions() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvMongoURI, "")
	t.Setenv(EnvRedisURL, "")

	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[server"},
		{"unknown key", "[server]\nport = 1"},
		{"bad duration", "[sync]\ndebounce = \"soon\""},
		{"bad backend", "[store]\nbackend = \"postgres\""},
		{"file store without path", "[store]\nbackend = \"file\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"bad cache", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"unknown breakpoint", "[[breakpoints]]\nname = \"huge\"\ncolumns = 4"},
		{"wider than canonical", "[[breakpoints]]\nname = \"lg\"\ncolumns = 2\n[[breakpoints]]\nname = \"sm\"\ncolumns = 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvMongoURI: "mongodb://db:27017/bento",
		EnvRedisURL: "redis://cache:6379/0",
		EnvPort:     "7000",
		EnvStore:    "mongo",
	}
	cfg := Defaults()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Server.Addr)
	}
	if cfg.Store.Backend != store.BackendMongo || cfg.Store.MongoURI != env[EnvMongoURI] {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.RedisURL != env[EnvRedisURL] {
		t.Errorf("RedisURL = %q", cfg.Cache.RedisURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDefaultsIndependent(t *testing.T) {
	a := Defaults()
	a.Breakpoints[0].Columns = 12
	if grid.DefaultBreakpoints[0].Columns != 4 {
		t.Fatal("Defaults() shares the breakpoint table")
	}
}
