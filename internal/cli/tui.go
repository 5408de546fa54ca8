package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nanofab/reticle/pkg/gds"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// CellListModel is the bubbletea model for interactive top-cell selection.
type CellListModel struct {
	Cells    []*gds.Cell
	Cursor   int
	Selected *gds.Cell
}

// NewCellListModel creates a new cell list model.
func NewCellListModel(cells []*gds.Cell) CellListModel {
	return CellListModel{Cells: cells}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Cells[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Top-Level Cell"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, c := range m.Cells {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		refs := len(c.References)
		polys := len(c.Boundaries) + len(c.Paths)
		line := fmt.Sprintf("%s%-25s  %s", cursor, c.Name,
			listDimStyle.Render(fmt.Sprintf("%d polygons, %d references", polys, refs)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cells))))

	return b.String()
}

// selectCellTUI runs the interactive cell picker and returns the chosen
// cell name. Quitting without a selection is reported as a closed input.
func selectCellTUI(cells []*gds.Cell) (string, error) {
	prog := tea.NewProgram(NewCellListModel(cells))
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	model := final.(CellListModel)
	if model.Selected == nil {
		return "", ErrInputClosed
	}
	return model.Selected.Name, nil
}
