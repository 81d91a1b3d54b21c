package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhuisman/etymon/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ModeListModel - Interactive layout mode selection
// =============================================================================

// ModeListModel is the bubbletea model for interactive mode selection.
type ModeListModel struct {
	Modes    []modeEntry
	Cursor   int
	Selected string
}

// newModeListModel creates a mode list model with the cursor on the
// default mode.
func newModeListModel(modes []modeEntry) ModeListModel {
	m := ModeListModel{Modes: modes}
	for i, e := range modes {
		if e.name == pipeline.DefaultMode {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m ModeListModel) Init() tea.Cmd {
	return nil
}

func (m ModeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Modes)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Modes[m.Cursor].name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ModeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout Mode"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.Modes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := e.name
		if name == pipeline.DefaultMode {
			name += " *"
		}

		line := fmt.Sprintf("%s%-12s %s", cursor, name, listDimStyle.Render(modeDescriptions[e.name]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  * default", m.Cursor+1, len(m.Modes))))

	return b.String()
}
