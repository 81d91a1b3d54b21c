package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/errors"
	pkgio "github.com/mhuisman/etymon/pkg/io"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		treeFile string
		noCache  bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [word]",
		Short: "Compute node positions for a layout mode",
		Long: `Compute node positions for a layout mode.

The layout command traces the word (or reads a tree produced by 'trace -o')
and computes node positions under the requested mode. The output is layout
JSON that can be rendered with 'render --layout'.

Results are cached locally for faster subsequent runs.

Examples:
  etymon layout night                      # Trace and lay out, JSON to stdout
  etymon layout night -m radial            # Radial wheel layout
  etymon layout --tree night.json -o night.layout.json
  etymon layout night -m dot               # Graphviz DOT source in the result`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Word = args[0]
			}
			if opts.Word == "" && treeFile == "" {
				return errors.New(errors.ErrCodeInvalidInput, "a word or --tree file is required")
			}
			c.applyConfig(&opts)
			return c.runLayout(cmd.Context(), opts, treeFile, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&treeFile, "tree", "", "read the tree from a JSON file instead of tracing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Trace flags (used when no --tree file is given)
	cmd.Flags().StringVar(&opts.Model, "model", "", "generation model")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum ancestry depth")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "maximum nodes to fetch")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached traces")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode (see 'etymon modes')")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", opts.NodeWidth, "node box width")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", opts.NodeHeight, "node box height")
	cmd.Flags().Float64Var(&opts.LevelSpacing, "level-spacing", opts.LevelSpacing, "spacing between generations")
	cmd.Flags().Float64Var(&opts.SiblingSpacing, "sibling-spacing", opts.SiblingSpacing, "spacing between siblings")
	cmd.Flags().Float64Var(&opts.Margin, "margin", opts.Margin, "viewport margin")
	cmd.Flags().StringVar(&opts.Weighting, "weighting", opts.Weighting, "node weighting: subtree (default), uniform")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "seed for randomized modes")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "iterations for the force mode")

	return cmd
}

// runLayout obtains the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, treeFile, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	var tree *lineage.Tree
	if treeFile != "" {
		tree, err = pkgio.ImportTree(treeFile)
		if err != nil {
			return err
		}
		if opts.Word == "" {
			opts.Word = tree.Root().Word
		}
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %q...", opts.Word))
		spinner.Start()
		var traceErr error
		tree, _, traceErr = runner.TraceWithCacheInfo(ctx, opts)
		if traceErr != nil {
			spinner.StopWithError("Trace failed")
			return traceErr
		}
		spinner.Stop()
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Mode))
	spinner.Start()

	res, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		return pkgio.WriteLayout(res, os.Stdout)
	}

	if err := pkgio.ExportLayout(res, output); err != nil {
		return err
	}

	printSuccess("Layout complete (%s)", res.Mode)
	printFile(output)
	printStats(tree.NodeCount(), tree.MaxDepth(), cacheHit)
	printNewline()
	printNextStep("Render", "etymon render --layout "+output)

	return nil
}
