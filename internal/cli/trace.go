package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/garden"
	pkgio "github.com/mhuisman/etymon/pkg/io"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

// traceOutput holds the output-related flags for the trace command.
type traceOutput struct {
	path  string // tree file path (skipped if empty)
	json  bool   // print the tree as JSON to stdout
	save  bool   // save the word to the garden
	notes string // notes attached to the garden entry
}

// traceCommand creates the trace command for fetching a word's ancestry.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		out     traceOutput
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "trace [word]",
		Short: "Trace a word's etymology and print its lineage",
		Long: `Trace a word's etymology and print its lineage.

The trace command asks the generation service for the word's ancestry,
normalizes the answer into a tree, and prints it with one line per word
form. Results are cached locally for faster subsequent runs.

Examples:
  etymon trace night                   # Print the lineage
  etymon trace night --json            # Print the tree as JSON
  etymon trace night -o night.json     # Write the tree to a file
  etymon trace night --save            # Save the word to the garden`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Word = args[0]
			c.applyConfig(&opts)
			return c.runTrace(cmd.Context(), opts, out, noCache)
		},
	}

	cmd.Flags().StringVarP(&out.path, "output", "o", "", "write the tree as JSON to a file")
	cmd.Flags().BoolVar(&out.json, "json", false, "print the tree as JSON to stdout")
	cmd.Flags().BoolVar(&out.save, "save", false, "save the word to the garden")
	cmd.Flags().StringVar(&out.notes, "notes", "", "notes to attach when saving")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Model, "model", "", "generation model")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum ancestry depth")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "maximum nodes to fetch")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached traces")

	return cmd
}

// runTrace fetches the lineage tree and writes the requested outputs.
func (c *CLI) runTrace(ctx context.Context, opts pipeline.Options, out traceOutput, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %q...", opts.Word))
	spinner.Start()

	prog := newProgress(logger)
	tree, cacheHit, err := runner.TraceWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Trace failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Traced %d nodes", tree.NodeCount()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if out.json {
		if err := pkgio.WriteTree(tree, os.Stdout); err != nil {
			return err
		}
	} else {
		printSuccess("Traced %q", tree.Root().Word)
		printLineage(tree)
		printStats(tree.NodeCount(), tree.MaxDepth(), cacheHit)
	}

	if out.path != "" {
		if err := pkgio.ExportTree(tree, out.path); err != nil {
			return err
		}
		if !out.json {
			printFile(out.path)
		}
	}

	if out.save {
		if err := c.saveToGarden(ctx, tree, opts.Mode, out.notes); err != nil {
			return fmt.Errorf("save to garden: %w", err)
		}
		if !out.json {
			printSuccess("Saved %q to the garden", tree.Root().Word)
		}
	}

	if !out.json {
		printNewline()
		printNextStep("Render", "etymon render "+opts.Word)
	}
	return nil
}

// saveToGarden stores the traced word in the configured garden backend.
func (c *CLI) saveToGarden(ctx context.Context, tree *lineage.Tree, mode, notes string) error {
	store, err := c.newGarden(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	root := tree.Root()
	return store.Save(ctx, garden.NewEntry(root.Word, root.Language, mode, notes))
}

// =============================================================================
// Lineage Display
// =============================================================================

// lineageRow is one line of the lineage display before styling.
type lineageRow struct {
	prefix   string // tree-drawing characters
	word     string
	language string
	detail   string // meaning and era
}

// printLineage renders the tree with box-drawing connectors and the
// language and meaning columns aligned.
func printLineage(t *lineage.Tree) {
	rows := lineageRows(t)

	// Column widths are computed on the unstyled text. ANSI escapes from
	// lipgloss would inflate byte and rune counts alike, and words can
	// come from wide scripts, so alignment uses display cells.
	wordW, langW := 0, 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.prefix + row.word); w > wordW {
			wordW = w
		}
		if w := runewidth.StringWidth(row.language); w > langW {
			langW = w
		}
	}

	for _, row := range rows {
		line := StyleDim.Render(row.prefix) + StyleValue.Render(row.word)
		line += strings.Repeat(" ", wordW-runewidth.StringWidth(row.prefix+row.word)+2)
		line += StyleHighlight.Render(row.language)
		if row.detail != "" {
			line += strings.Repeat(" ", langW-runewidth.StringWidth(row.language)+2)
			line += StyleDim.Render(row.detail)
		}
		fmt.Println(line)
	}
}

// lineageRows flattens the tree into display rows in pre-order, with
// box-drawing prefixes marking the branch structure.
func lineageRows(t *lineage.Tree) []lineageRow {
	root := t.Root()
	rows := make([]lineageRow, 0, t.NodeCount())
	rows = append(rows, lineageRow{word: root.Word, language: root.Language, detail: nodeDetail(root)})

	var walk func(id, indent string)
	walk = func(id, indent string) {
		children := t.Children(id)
		for i, childID := range children {
			child, ok := t.Node(childID)
			if !ok {
				continue
			}
			connector, next := "├─ ", indent+"│  "
			if i == len(children)-1 {
				connector, next = "└─ ", indent+"   "
			}
			rows = append(rows, lineageRow{
				prefix:   indent + connector,
				word:     child.Word,
				language: child.Language,
				detail:   nodeDetail(child),
			})
			walk(childID, next)
		}
	}
	walk(root.ID, "")
	return rows
}

// nodeDetail formats a node's meaning and era for the detail column.
func nodeDetail(n *lineage.Node) string {
	switch {
	case n.Meaning != "" && n.Era != "":
		return fmt.Sprintf("%q, %s", n.Meaning, n.Era)
	case n.Meaning != "":
		return fmt.Sprintf("%q", n.Meaning)
	default:
		return n.Era
	}
}
