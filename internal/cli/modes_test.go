package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

func TestAllModes(t *testing.T) {
	entries := allModes()

	if len(entries) != len(layout.Modes())+1 {
		t.Fatalf("allModes() returned %d entries, want %d", len(entries), len(layout.Modes())+1)
	}

	last := entries[len(entries)-1]
	if last.name != layout.ModeDot || last.engine != "graphviz" {
		t.Errorf("last entry = %+v, want the dot mode under the graphviz engine", last)
	}

	for _, e := range entries[:len(entries)-1] {
		if e.engine != "geometric" {
			t.Errorf("mode %q engine = %q, want geometric", e.name, e.engine)
		}
	}

	for _, e := range entries {
		if modeDescriptions[e.name] == "" {
			t.Errorf("mode %q has no description", e.name)
		}
	}
}

func TestModeListModelStartsOnDefault(t *testing.T) {
	m := newModeListModel(allModes())
	if m.Modes[m.Cursor].name != pipeline.DefaultMode {
		t.Errorf("cursor starts on %q, want %q", m.Modes[m.Cursor].name, pipeline.DefaultMode)
	}
}

func TestModeListModelSelect(t *testing.T) {
	m := newModeListModel(allModes())
	start := m.Cursor

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ModeListModel)
	if m.Cursor != start+1 {
		t.Fatalf("cursor = %d after down, want %d", m.Cursor, start+1)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ModeListModel)
	if m.Selected != m.Modes[m.Cursor].name {
		t.Errorf("Selected = %q, want %q", m.Selected, m.Modes[m.Cursor].name)
	}
}

func TestModeListModelQuitWithoutSelection(t *testing.T) {
	m := newModeListModel(allModes())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(ModeListModel)
	if m.Selected != "" {
		t.Errorf("Selected = %q after quit, want empty", m.Selected)
	}
}

func TestModeListModelCursorBounds(t *testing.T) {
	m := newModeListModel(allModes())
	m.Cursor = 0

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(ModeListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.Cursor)
	}

	m.Cursor = len(m.Modes) - 1
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ModeListModel)
	if m.Cursor != len(m.Modes)-1 {
		t.Errorf("cursor = %d after down at bottom, want %d", m.Cursor, len(m.Modes)-1)
	}
}

func TestModeListModelView(t *testing.T) {
	m := newModeListModel(allModes())
	view := m.View()

	for _, e := range m.Modes {
		if !strings.Contains(view, e.name) {
			t.Errorf("view is missing mode %q", e.name)
		}
	}
	if !strings.Contains(view, "Select Layout Mode") {
		t.Error("view is missing the title")
	}
}
