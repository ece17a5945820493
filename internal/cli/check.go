package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// finding is one row of a check report.
type finding struct {
	Breakpoint grid.Breakpoint
	Kind       string
	IDs        []string
	Detail     string
	Fatal      bool
}

// checkDocument lists what is wrong with doc as stored. Gaps are reported
// but are not fatal: a committed drag may leave empty rows.
func checkDocument(doc *bento.Document, bs grid.Breakpoints) []finding {
	var out []finding
	for _, v := range grid.Validate(doc.Layouts, bs.Canonical().Name) {
		out = append(out, finding{
			Breakpoint: v.Breakpoint,
			Kind:       string(v.Kind),
			IDs:        v.IDs,
			Detail:     v.Message,
			Fatal:      v.Kind != grid.ViolationGap,
		})
	}

	// Repair also sees problems that need the widget list. Kinds that
	// Validate already reports are skipped.
	_, fixes := bento.Repair(doc, bs, bento.RepairOptions{})
	for _, f := range fixes {
		switch f.Kind {
		case bento.RepairClampedItem, bento.RepairDuplicateItem, bento.RepairRederived:
			continue
		}
		var ids []string
		if f.ID != "" {
			ids = []string{f.ID}
		}
		out = append(out, finding{
			Breakpoint: f.Breakpoint,
			Kind:       string(f.Kind),
			IDs:        ids,
			Detail:     f.Detail,
			Fatal:      true,
		})
	}
	return out
}

func renderFindings(findings []finding) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(findings))
	for i, f := range findings {
		bp := string(f.Breakpoint)
		if bp == "" {
			bp = "-"
		}
		rows[i] = []string{bp, f.Kind, strings.Join(f.IDs, ","), f.Detail}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Breakpoint", "Kind", "Items", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(findings) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				if findings[row].Fatal {
					return StyleError
				}
				return StyleWarning
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <doc.json>",
		Short: "Report broken layout invariants in a document",
		Long: `Check decodes a document without changing it and reports overlapping or
out-of-bounds items, duplicated ids, breakpoints whose ids differ from the
canonical grid, and widgets without a canonical item. It exits non-zero when
any problem other than an empty row is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.decodeFile(args[0])
			if err != nil {
				return err
			}

			findings := checkDocument(doc, c.breakpoints())
			if len(findings) == 0 {
				printSuccess("%s: %d widgets, layout is consistent", args[0], len(doc.Widgets))
				return nil
			}

			fmt.Fprintln(stdout, renderFindings(findings))
			fatal := 0
			for _, f := range findings {
				if f.Fatal {
					fatal++
				}
			}
			if fatal == 0 {
				printWarning("%d warnings", len(findings))
				return nil
			}
			return errors.New(errors.ErrCodeInvalidLayout, "%s: %d problems found", args[0], fatal)
		},
	}
}
