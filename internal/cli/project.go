package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/core/grid"
)

func (c *CLI) projectCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "project <doc.json>",
		Short: "Re-derive every breakpoint from the canonical grid",
		Long: `Project repairs a document, then reflows the canonical grid's items in
reading order into every breakpoint and writes the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			doc, fixes, err := c.readDocument(ctx, args[0])
			if err != nil {
				return err
			}
			doc.Layouts = grid.ProjectFrom(doc.Layouts, c.breakpoints())

			if output == "" {
				output = projectedPath(args[0])
			}
			if err := c.writeDocument(ctx, output, doc); err != nil {
				return err
			}
			prog.done("Projected layout")

			printSuccess("Projected %d widgets onto %d breakpoints", len(doc.Widgets), len(doc.Layouts))
			if len(fixes) > 0 {
				printWarning("Applied %d repairs", len(fixes))
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.projected.json)")
	return cmd
}
