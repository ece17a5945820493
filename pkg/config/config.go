// Package config loads bentogrid settings from a TOML file and the
// environment.
//
// Values are resolved in three steps: built-in defaults, then the file (a
// missing file is not an error), then environment overrides. The result is
// validated before use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/store"
	"github.com/matzehuels/bentogrid/pkg/syncer"
)

// Environment variables that override file settings.
const (
	EnvMongoURI = "MONGODB_URI"
	EnvRedisURL = "REDIS_URL"
	EnvPort     = "PORT"
	EnvStore    = "BENTOGRID_STORE"
)

// Cache backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Duration is a time.Duration written as text ("1s", "500ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Server      ServerConfig     `toml:"server"`
	Store       StoreConfig      `toml:"store"`
	Cache       CacheConfig      `toml:"cache"`
	Sync        SyncConfig       `toml:"sync"`
	Layout      LayoutConfig     `toml:"layout"`
	Breakpoints grid.Breakpoints `toml:"breakpoints"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// CacheConfig selects the read cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	Prefix   string   `toml:"prefix"`
}

// SyncConfig tunes the debounced syncer.
type SyncConfig struct {
	Debounce Duration `toml:"debounce"`
}

// LayoutConfig tunes edit behaviour.
type LayoutConfig struct {
	ReflowOnResize bool `toml:"reflow_on_resize"`
	AdoptOrphans   bool `toml:"adopt_orphans"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":5000",
			RequestTimeout: Duration{5 * time.Second},
		},
		Store: StoreConfig{
			Backend:  store.BackendMemory,
			Database: store.DefaultMongoDatabase,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     Duration{cache.TTLProfile},
		},
		Sync: SyncConfig{
			Debounce: Duration{syncer.DefaultDebounce},
		},
		Breakpoints: slices.Clone(grid.DefaultBreakpoints),
	}
}

// DefaultPath returns ~/.config/bentogrid/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bentogrid", "config.toml"), nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		default:
			if err := Parse(data, &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data over cfg. A file that declares breakpoints
// replaces the default table entirely.
func Parse(data []byte, cfg *Config) error {
	var probe struct {
		Breakpoints []grid.Spec `toml:"breakpoints"`
	}
	if _, err := toml.Decode(string(data), &probe); err != nil {
		return err
	}
	if len(probe.Breakpoints) > 0 {
		cfg.Breakpoints = nil
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with
// getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvMongoURI)); v != "" {
		c.Store.MongoURI = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisURL)); v != "" {
		c.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := strings.TrimSpace(getenv(EnvStore)); v != "" {
		c.Store.Backend = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := c.Breakpoints.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "breakpoints")
	}
	if !slices.Contains(store.Backends(), c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store backend must be one of %s, got %q",
			strings.Join(store.Backends(), ", "), c.Store.Backend)
	}
	switch c.Store.Backend {
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend %s needs store.path", c.Store.Backend)
		}
	case store.BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo needs store.mongo_uri or %s", EnvMongoURI)
		}
	}
	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend file needs cache.dir")
		}
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs cache.redis_url or %s", EnvRedisURL)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend must be none, file or redis, got %q", c.Cache.Backend)
	}
	if c.Sync.Debounce.Duration < 0 || c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	return nil
}

// StoreOptions converts the store section into store.Open options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.Store.Backend,
		Path:        c.Store.Path,
		MongoURI:    c.Store.MongoURI,
		Database:    c.Store.Database,
		Breakpoints: c.Breakpoints,
	}
}

// Keyer returns the cache keyer, scoped by cache.prefix when set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}
