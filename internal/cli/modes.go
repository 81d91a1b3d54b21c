package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

// modeDescriptions maps each layout mode to a one-line summary shown in
// the modes table and the interactive picker.
var modeDescriptions = map[string]string{
	layout.ModeTree:      "Tidy layered tree, root on top",
	layout.ModeFlowchart: "Fixed levels with elbow connectors",
	layout.ModeFishbone:  "Central spine with alternating branches",
	layout.ModeRadial:    "Generations on concentric rings",
	layout.ModeBundle:    "Radial leaves with bundled edges",
	layout.ModeForce:     "Force-directed placement",
	layout.ModeSunburst:  "Angular sectors by generation",
	layout.ModeTreemap:   "Nested rectangles by subtree size",
	layout.ModePack:      "Nested circles by subtree size",
	layout.ModeSankey:    "Columns joined by flow ribbons",
	layout.ModeDot:       "Graphviz hierarchical layout",
}

// modeEntry is one row of the modes listing.
type modeEntry struct {
	name   string
	engine string
}

// allModes returns the geometric modes plus dot, in menu order.
func allModes() []modeEntry {
	names := layout.Modes()
	entries := make([]modeEntry, 0, len(names)+1)
	for _, name := range names {
		entries = append(entries, modeEntry{name: name, engine: "geometric"})
	}
	return append(entries, modeEntry{name: layout.ModeDot, engine: "graphviz"})
}

// modesCommand creates the modes command listing layout modes.
func (c *CLI) modesCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List available layout modes",
		Long: `List available layout modes.

With --pick, an interactive picker opens and the chosen mode name is
printed to stdout, so it can feed a render directly:

  etymon render night -m $(etymon modes --pick)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				return runModePicker()
			}
			printModesTable()
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "pick a mode interactively")

	return cmd
}

// printModesTable renders the mode listing as a bordered table.
func printModesTable() {
	entries := allModes()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.name
		if name == pipeline.DefaultMode {
			name += " (default)"
		}
		rows = append(rows, []string{name, e.engine, modeDescriptions[e.name]})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mode", "Engine", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleDim
		})
	fmt.Println(t.Render())
}

// runModePicker opens the interactive picker and prints the chosen mode.
// The picker draws on stderr so a command substitution captures only the
// mode name.
func runModePicker() error {
	final, err := tea.NewProgram(newModeListModel(allModes()), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return fmt.Errorf("mode picker: %w", err)
	}
	if m, ok := final.(ModeListModel); ok && m.Selected != "" {
		fmt.Println(m.Selected)
	}
	return nil
}
