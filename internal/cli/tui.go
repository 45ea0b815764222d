package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// RootListModel - Interactive root selection
// =============================================================================

// rootRow is one root with its precomputed summary.
type rootRow struct {
	id       string
	node     *tree.Node[string]
	nodes    int
	children int
}

// RootListModel is the bubbletea model for choosing which root of a forest
// to show.
type RootListModel struct {
	rows     []rootRow
	Cursor   int
	Offset   int
	Height   int
	Selected *tree.Node[string]
}

// NewRootListModel creates a picker over roots.
func NewRootListModel(f *ngio.Forest, roots []*tree.Node[string]) RootListModel {
	rows := make([]rootRow, len(roots))
	for i, r := range roots {
		id, ok := f.ID(r)
		if !ok {
			id = r.Value()
		}
		rows[i] = rootRow{id: id, node: r, nodes: r.Count(), children: r.ChildCount()}
	}
	return RootListModel{rows: rows, Height: 15}
}

func (m RootListModel) Init() tea.Cmd {
	return nil
}

func (m RootListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.rows) > 0 {
				m.Selected = m.rows[m.Cursor].node
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m RootListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Root"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		frozen := ""
		if r.node.IsFrozen() {
			frozen = "✓"
		}
		rows = append(rows, []string{cursor, r.id, strconv.Itoa(r.children), strconv.Itoa(r.nodes), frozen})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Root", "Children", "Nodes", "Frozen").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}
