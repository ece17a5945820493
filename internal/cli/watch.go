package cli

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/syncer"
)

const defaultWatchDebounce = 200 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <doc.json>",
		Short: "Keep a document file normalized while it is edited",
		Long: `Watch repairs the document whenever the file changes and writes it back
only when the repaired layout differs from what is on disk, so its own
writes do not trigger another round.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watch(cmd.Context(), args[0], debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", defaultWatchDebounce, "quiet period before a change is processed")
	return cmd
}

// normalizeFile repairs the document at path and writes it back if that
// changed anything. It reports whether the file was rewritten.
func (c *CLI) normalizeFile(ctx context.Context, path string) (bool, error) {
	before, err := c.decodeFile(path)
	if err != nil {
		return false, err
	}
	after, fixes := bento.Repair(before, c.breakpoints(), c.repairOptions())
	if sameDocument(before, after) {
		return false, nil
	}
	logger := loggerFromContext(ctx)
	for _, f := range fixes {
		logger.Warn("repaired", "file", path, "fix", f.String())
	}
	return true, c.writeDocument(ctx, path, after)
}

func sameDocument(a, b *bento.Document) bool {
	return a.Username == b.Username && slices.Equal(a.Widgets, b.Widgets) && grid.Equal(a.Layouts, b.Layouts)
}

func (c *CLI) watch(ctx context.Context, path string, debounce time.Duration) error {
	logger := loggerFromContext(ctx)
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := c.normalizeFile(ctx, path); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("close watcher", "err", err)
		}
	}()

	// Saves replace the file by rename, which drops a watch on the file
	// itself, so the directory is watched instead.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	printInfo("Watching %s", path)

	changed := make(chan struct{}, 1)
	d := syncer.NewDebouncer(debounce)
	defer d.Cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			d.Trigger(func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-changed:
			rewrote, err := c.normalizeFile(ctx, path)
			switch {
			case err != nil:
				logger.Error("normalize failed", "file", path, "err", err)
			case rewrote:
				printSuccess("Normalized %s", filepath.Base(path))
			default:
				logger.Debug("document unchanged", "file", path)
			}
		}
	}
}
