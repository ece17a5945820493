package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/board"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
	"github.com/matzehuels/bentogrid/pkg/store"
	"github.com/matzehuels/bentogrid/pkg/syncer"
)

func (c *CLI) widgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Edit the widgets of a document file",
	}

	cmd.AddCommand(c.widgetAddCommand())
	cmd.AddCommand(c.widgetRemoveCommand())
	cmd.AddCommand(c.widgetResizeCommand())

	return cmd
}

// editFile opens path on a board whose edits are synced back to the file,
// runs fn and flushes before returning. With create set, a missing file
// starts as an empty document.
func (c *CLI) editFile(ctx context.Context, path string, create bool, fn func(context.Context, *board.Board) error) error {
	logger := loggerFromContext(ctx)

	doc, _, err := c.readDocument(ctx, path)
	switch {
	case err == nil:
	case create && errors.Is(err, errors.ErrCodeNotFound):
		doc = bento.New(usernameFromPath(path), c.breakpoints())
		logger.Info("creating document", "file", path, "user", doc.Username)
	default:
		return err
	}

	sy := syncer.New(store.OpenDocumentFile(path, c.breakpoints()), syncer.Options{
		Debounce: c.cfg.Sync.Debounce.Duration,
		Logger:   logger,
	})
	b := board.New(doc, board.Options{
		Breakpoints:    c.breakpoints(),
		ReflowOnResize: c.cfg.Layout.ReflowOnResize,
		Sink:           sy,
		Logger:         logger,
	})

	runErr := fn(ctx, b)
	pending := sy.Pending()

	spin := newSpinner(ctx, "Syncing "+path)
	if pending {
		spin.Start()
	}
	closeErr := sy.Close(context.WithoutCancel(ctx))
	spin.Stop()

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}
	if !pending {
		printInfo("No changes")
		return nil
	}
	printFile(path)
	return nil
}

// usernameFromPath derives a username from a document file name.
func usernameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (c *CLI) widgetAddCommand() *cobra.Command {
	var w bento.Widget
	var size string

	cmd := &cobra.Command{
		Use:   "add <doc.json>",
		Short: "Add a widget at the first free cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if size != "" {
				s, err := grid.ParseSize(size)
				if err != nil {
					return err
				}
				w.Size = s
			}
			return c.editFile(cmd.Context(), args[0], true, func(ctx context.Context, b *board.Board) error {
				added, err := b.AddWidget(ctx, w)
				if err != nil {
					return err
				}
				printSuccess("Added widget %s (%s)", added.ID, added.Size)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&w.ID, "id", "", "widget id (default: generated)")
	cmd.Flags().StringVar(&size, "size", string(grid.DefaultSize), "widget size: "+sizeList())
	cmd.Flags().StringVar(&w.URL, "url", "", "link target")
	cmd.Flags().StringVar(&w.CustomTitle, "title", "", "custom title")
	cmd.Flags().StringVar(&w.CustomImage, "image", "", "custom image URL")
	cmd.Flags().StringVar(&w.CTAText, "cta", "", "call-to-action text")
	return cmd
}

func (c *CLI) widgetRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <doc.json> <id>",
		Short: "Remove a widget and close the gap it leaves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editFile(cmd.Context(), args[0], false, func(ctx context.Context, b *board.Board) error {
				if err := b.RemoveWidget(ctx, args[1]); err != nil {
					return err
				}
				printSuccess("Removed widget %s", args[1])
				return nil
			})
		},
	}
}

func (c *CLI) widgetResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <doc.json> <id> <size>",
		Short: "Change a widget's size (" + sizeList() + ")",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := grid.ParseSize(args[2])
			if err != nil {
				return err
			}
			return c.editFile(cmd.Context(), args[0], false, func(ctx context.Context, b *board.Board) error {
				changed, err := b.ResizeWidget(ctx, args[1], size)
				if err != nil {
					return err
				}
				if changed {
					printSuccess("Resized widget %s to %s", args[1], size)
				}
				return nil
			})
		},
	}
}

func sizeList() string {
	sizes := grid.Sizes()
	names := make([]string, len(sizes))
	for i, s := range sizes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
