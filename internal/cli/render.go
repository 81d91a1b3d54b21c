package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mhuisman/etymon/pkg/errors"
	pkgio "github.com/mhuisman/etymon/pkg/io"
	"github.com/mhuisman/etymon/pkg/pipeline"
	"github.com/mhuisman/etymon/pkg/render"
)

// renderInputs holds the input and output flags for the render command.
type renderInputs struct {
	tree   string // tree JSON file (skips tracing)
	layout string // layout JSON file (skips tracing and layout)
	output string // output file (single format) or base path (multiple)
	copy   bool   // copy the rendered SVG to the clipboard
}

// renderCommand creates the render command for producing artifact files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in         renderInputs
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [word]",
		Short: "Render a word's lineage to image files",
		Long: `Render a word's lineage to image files.

The render command runs the full pipeline: trace the word, compute the
layout, and export the requested formats. Stages that already ran are
served from the cache. Start from an intermediate file with --tree or
--layout to skip earlier stages.

Examples:
  etymon render night                          # night -> etymon_night_tree.svg
  etymon render night -m radial -f svg,png     # Two formats
  etymon render night -m dot -f svg            # Graphviz rendering
  etymon render --layout night.layout.json     # Render a saved layout
  etymon render night --copy                   # Copy the SVG to the clipboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Word = args[0]
			}
			if opts.Word == "" && in.tree == "" && in.layout == "" {
				return errors.New(errors.ErrCodeInvalidInput, "a word, --tree file, or --layout file is required")
			}
			opts.Formats = parseFormats(formatsStr)
			if !cmd.Flags().Changed("dark") {
				opts.Dark = c.Config.Render.Dark
			}
			c.applyConfig(&opts)
			return c.runRender(cmd.Context(), opts, in, noCache)
		},
	}

	cmd.Flags().StringVarP(&in.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&in.tree, "tree", "", "read the tree from a JSON file instead of tracing")
	cmd.Flags().StringVar(&in.layout, "layout", "", "render a layout JSON file directly")
	cmd.Flags().BoolVar(&in.copy, "copy", false, "copy the rendered SVG to the clipboard")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, pdf, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Trace flags (used when no input file is given)
	cmd.Flags().StringVar(&opts.Model, "model", "", "generation model")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum ancestry depth")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached traces")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode (see 'etymon modes')")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "seed for randomized modes")

	// Render flags
	cmd.Flags().BoolVar(&opts.Dark, "dark", false, "dark background palette")
	cmd.Flags().StringVar(&opts.Tooltips, "tooltips", "", "tooltip detail: full (default), compact, off")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "raster scale factor")

	return cmd
}

// runRender produces artifacts from a word, a tree file, or a layout file.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, in renderInputs, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	if in.copy && !formatsInclude(opts.Formats, render.FormatSVG) {
		opts.Formats = append(opts.Formats, string(render.FormatSVG))
	}

	var (
		artifacts map[string][]byte
		mode      string
		nodes     int
		depth     int
		hits      pipeline.CacheInfo
	)

	switch {
	case in.layout != "":
		res, err := pkgio.ImportLayout(in.layout)
		if err != nil {
			return err
		}
		opts.Mode = res.Mode
		if opts.Word == "" && len(res.Nodes) > 0 {
			opts.Word = res.Nodes[0].Word
		}
		if err := opts.ValidateForRender(); err != nil {
			return err
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s layout...", res.Mode))
		spinner.Start()
		artifacts, hits.RenderHit, err = runner.RenderWithCacheInfo(ctx, res, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		mode, nodes = res.Mode, len(res.Nodes)

	case in.tree != "":
		tree, err := pkgio.ImportTree(in.tree)
		if err != nil {
			return err
		}
		if opts.Word == "" {
			opts.Word = tree.Root().Word
		}
		if err := opts.ValidateForRender(); err != nil {
			return err
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %q...", opts.Word))
		spinner.Start()
		res, layoutHit, err := runner.GenerateLayoutWithCacheInfo(ctx, tree, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return err
		}
		hits.LayoutHit = layoutHit
		artifacts, hits.RenderHit, err = runner.RenderWithCacheInfo(ctx, res, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		mode, nodes, depth = res.Mode, tree.NodeCount(), tree.MaxDepth()

	default:
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %q...", opts.Word))
		spinner.Start()
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		artifacts = result.Artifacts
		opts.Word = result.Tree.Root().Word
		mode, nodes, depth = result.Layout.Mode, result.Tree.NodeCount(), result.Tree.MaxDepth()
		hits = result.CacheInfo
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendered %q (%s)", opts.Word, mode)
	if err := writeArtifacts(artifactWriteParams{
		word:      opts.Word,
		mode:      mode,
		output:    in.output,
		formats:   opts.Formats,
		artifacts: artifacts,
	}); err != nil {
		return err
	}

	if in.tree != "" || in.layout != "" {
		printStats(nodes, depth, hits.RenderHit)
	} else {
		printStages(hits.TraceHit, hits.LayoutHit, hits.RenderHit)
	}

	if in.copy {
		if err := clipboard.WriteAll(string(artifacts[string(render.FormatSVG)])); err != nil {
			printWarning("Clipboard unavailable: %v", err)
		} else {
			printSuccess("Copied SVG to clipboard")
		}
	}

	return nil
}

// formatsInclude reports whether the format list contains want, accepting
// aliases like "jpg" for jpeg.
func formatsInclude(formats []string, want render.Format) bool {
	for _, name := range formats {
		if f, err := render.ParseFormat(name); err == nil && f == want {
			return true
		}
	}
	return false
}

// =============================================================================
// Artifact Writing
// =============================================================================

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	word      string
	mode      string
	output    string
	formats   []string
	artifacts map[string][]byte
}

// writeArtifacts writes each rendered format to disk. With a single
// format the output flag names the file directly; with several it is a
// base path and each format adds its extension. Without an output flag,
// files land in the working directory under the standard artifact name.
func writeArtifacts(p artifactWriteParams) error {
	single := len(p.formats) == 1
	for _, name := range p.formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		data, ok := p.artifacts[string(f)]
		if !ok {
			continue
		}

		path := artifactPath(p.word, p.mode, p.output, f, single)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}
	return nil
}

// artifactPath decides where one artifact lands.
func artifactPath(word, mode, output string, f render.Format, single bool) string {
	if output == "" {
		return render.Filename(word, mode, f)
	}
	if single {
		return output
	}
	return artifactBase(output) + "." + f.Ext()
}

// artifactBase strips a known format extension from the output flag so
// "night.svg" works as a base path for multiple formats.
func artifactBase(output string) string {
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
