package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
)

// DOTOptions configures dot-mode output.
type DOTOptions struct {
	// Detailed adds meaning and era lines to node labels. When false,
	// labels carry the word and language only.
	Detailed bool
	// Dark picks the night palette for fills and text.
	Dark bool
}

// ToDOT converts a lineage tree to Graphviz DOT source. The modern word
// sits at the top rank and ancestry flows downward; node fills follow
// the family palette. Render the result with [RenderDOT]. Returns ""
// for a nil tree.
func ToDOT(tree *lineage.Tree, opts DOTOptions) string {
	if tree == nil {
		return ""
	}
	theme := Light
	if opts.Dark {
		theme = Dark
	}

	var buf bytes.Buffer
	buf.WriteString("digraph etymology {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\", fontcolor=%q, color=%q];\n",
		theme.Text, theme.Outline)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", theme.Edge)
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := tree.Root()
	for _, n := range tree.Nodes() {
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", dotLabel(n, opts.Detailed), FamilyColor(n.Family, opts.Dark))
		if n.ID == root.ID {
			attrs += ", penwidth=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range tree.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *lineage.Node, detailed bool) string {
	label := n.Word + "\n" + n.Language
	if !detailed {
		return label
	}
	if n.Meaning != "" {
		label += "\n" + n.Meaning
	}
	if n.Era != "" {
		label += "\n" + n.Era
	}
	return label
}

// DOTResult wraps DOT source in the unified layout format so the dot
// mode flows through the same caching and export paths as the
// geometric strategies.
func DOTResult(tree *lineage.Tree, vp layout.Viewport, opts DOTOptions) (*layout.Result, error) {
	if tree == nil {
		return nil, layout.ErrNilTree
	}
	return &layout.Result{
		Mode:   layout.ModeDot,
		Width:  vp.Width,
		Height: vp.Height,
		DOT:    ToDOT(tree, opts),
		Engine: "dot",
	}, nil
}

// RenderDOT renders DOT source to SVG through Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	if dot == "" {
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "no dot source to render")
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag so the document scales
// to its container instead of carrying point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
