// Package cli implements the bentogrid command-line interface.
//
// The commands operate on profile documents: JSON files holding a user's
// widgets and one grid per breakpoint. serve exposes the same operations
// over HTTP backed by the configured store.
//
// # Commands
//
//   - serve: run the HTTP API
//   - project: re-derive every breakpoint from the canonical grid
//   - check: report broken layout invariants
//   - widget: add, remove or resize a widget in a document file
//   - watch: keep a document file normalized while it is edited
//   - preview: draw each breakpoint grid in the terminal
//   - cache: manage the local file cache
//
// All commands accept --config and --verbose (-v).
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/buildinfo"
	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/cache"
	"github.com/matzehuels/bentogrid/pkg/config"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bentogrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Defaults(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bentogrid lays out profile page widgets on responsive grids",
		Long:         `Bentogrid keeps bento profile layouts consistent across breakpoints: it places, reflows and projects widget grids, checks stored documents and serves them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/bentogrid/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.widgetCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default path when it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	} else if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return nil
}

func (c *CLI) breakpoints() grid.Breakpoints {
	return c.cfg.Breakpoints
}

func (c *CLI) repairOptions() bento.RepairOptions {
	return bento.RepairOptions{AdoptOrphans: c.cfg.Layout.AdoptOrphans}
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the cache backend named in the configuration.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.cfg.Cache.Backend {
	case config.CacheFile:
		return cache.NewFileCache(c.cfg.Cache.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	default:
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bentogrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
