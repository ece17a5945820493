package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bentogrid/pkg/bento"
	"github.com/matzehuels/bentogrid/pkg/board"
	"github.com/matzehuels/bentogrid/pkg/core/grid"
	"github.com/matzehuels/bentogrid/pkg/errors"
)

// Cell size of the ASCII rendering, in characters.
const (
	cellWidth  = 12
	cellHeight = 3
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	gridStyle        = lipgloss.NewStyle().Foreground(colorWhite)
)

func (c *CLI) previewCommand() *cobra.Command {
	var (
		plain      bool
		breakpoint string
	)

	cmd := &cobra.Command{
		Use:   "preview <doc.json>",
		Short: "Draw each breakpoint grid of a document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := c.readDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := newPreviewModel(doc, c.breakpoints())
			if breakpoint != "" {
				bp, err := grid.ParseBreakpoint(breakpoint)
				if err != nil {
					return err
				}
				if !m.focus(bp) {
					return errors.New(errors.ErrCodeInvalidBreakpoint, "breakpoint %s is not configured", bp)
				}
			}
			if plain {
				fmt.Fprint(stdout, m.plain(breakpoint != ""))
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the grids without the interactive view")
	cmd.Flags().StringVar(&breakpoint, "breakpoint", "", "breakpoint to show (with --plain, the only one printed)")
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", c.breakpointCompletion)
	return cmd
}

// previewModel is the bubbletea model for paging through breakpoints.
type previewModel struct {
	username string
	layout   grid.Layout
	labels   map[string]string
	bs       grid.Breakpoints
	active   int
}

func newPreviewModel(doc *bento.Document, bs grid.Breakpoints) previewModel {
	labels := make(map[string]string, len(doc.Widgets))
	for _, w := range doc.Widgets {
		label := w.ID
		if w.CustomTitle != "" {
			label = w.CustomTitle
		}
		labels[w.ID] = label
	}
	return previewModel{
		username: doc.Username,
		layout:   board.New(doc, board.Options{Breakpoints: bs}).View(),
		labels:   labels,
		bs:       bs,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			m.active = (m.active + 1) % len(m.bs)
		case "left", "h", "shift+tab":
			m.active = (m.active + len(m.bs) - 1) % len(m.bs)
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.username))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.bs))
	for i, s := range m.bs {
		label := fmt.Sprintf("%s (%d)", s.Name, s.Columns)
		if i == m.active {
			tabs[i] = tabActiveStyle.Render(label)
		} else {
			tabs[i] = tabInactiveStyle.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	b.WriteString(gridStyle.Render(renderGrid(m.layout[m.bs[m.active].Name], m.labels)))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("←/→ breakpoint  q quit"))
	return b.String()
}

// focus makes bp the active breakpoint. It reports false if bp is not in
// the table.
func (m *previewModel) focus(bp grid.Breakpoint) bool {
	for i, s := range m.bs {
		if s.Name == bp {
			m.active = i
			return true
		}
	}
	return false
}

// plain renders every breakpoint one after the other, or only the active
// one.
func (m previewModel) plain(onlyActive bool) string {
	var b strings.Builder
	for i, s := range m.bs {
		if onlyActive && i != m.active {
			continue
		}
		g := m.layout[s.Name]
		fmt.Fprintf(&b, "%s · %d columns · %d items\n", s.Name, s.Columns, len(g.Items))
		b.WriteString(renderGrid(g, m.labels))
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderGrid draws g as ASCII boxes, one cellWidth x cellHeight block per
// grid cell. Empty cells are dotted.
func renderGrid(g grid.Grid, labels map[string]string) string {
	rows := max(g.Rows(), 1)
	width, height := max(g.Columns, 1)*cellWidth, rows*cellHeight

	canvas := make([][]rune, height)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", width))
		if y%cellHeight == cellHeight/2 {
			for x := cellWidth / 2; x < width; x += cellWidth {
				canvas[y][x] = '·'
			}
		}
	}

	for _, it := range g.Items {
		left, top := it.X*cellWidth, it.Y*cellHeight
		right, bottom := min(it.Right()*cellWidth, width)-1, min(it.Bottom()*cellHeight, height)-1
		if left < 0 || top < 0 || right <= left || bottom <= top {
			continue
		}
		for y := top; y <= bottom; y++ {
			for x := left; x <= right; x++ {
				switch {
				case (y == top || y == bottom) && (x == left || x == right):
					canvas[y][x] = '+'
				case y == top || y == bottom:
					canvas[y][x] = '-'
				case x == left || x == right:
					canvas[y][x] = '|'
				default:
					canvas[y][x] = ' '
				}
			}
		}
		label := labels[it.ID]
		if label == "" {
			label = it.ID
		}
		room := right - left - 3
		if r := []rune(label); room > 0 {
			if len(r) > room {
				r = r[:room]
			}
			copy(canvas[top+1][left+2:], r)
		}
	}

	lines := make([]string, height)
	for y, row := range canvas {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}
