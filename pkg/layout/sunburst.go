package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(sunburstStrategy{}) }

// sunburstStrategy partitions an annulus per depth tier: the root is the
// center disc, each generation is one ring further out, and a node's
// angular span is its weight share of the parent's span. No edges are
// emitted - containment is the hierarchy.
type sunburstStrategy struct{}

func (sunburstStrategy) Name() string { return ModeSunburst }

func (sunburstStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeSunburst, vp), nil
	}

	center := vp.Center()
	maxRadius := math.Min(vp.Width, vp.Height)/2 - opts.Margin
	if maxRadius <= 0 {
		maxRadius = math.Min(vp.Width, vp.Height) / 2
	}
	ringStep := maxRadius / float64(tree.MaxDepth()+1)
	tierPad := math.Min(opts.Padding, ringStep/2)

	nodes := make([]PlacedNode, 0, tree.NodeCount())

	var divide func(id string, a0, a1 float64)
	divide = func(id string, a0, a1 float64) {
		n, _ := tree.Node(id)
		inner := float64(n.Depth) * ringStep
		outer := inner + ringStep - tierPad
		nodes = append(nodes, sectorNode(n, center, a0, a1, inner, outer))

		children := tree.Children(id)
		if len(children) == 0 {
			return
		}

		// Sibling gaps aim for Padding pixels of arc at the child ring.
		childMidR := (float64(n.Depth)+1.5)*ringStep - tierPad/2
		padAngle := 0.0
		if childMidR > 0 {
			padAngle = opts.Padding / childMidR
		}
		available := (a1 - a0) - float64(len(children)-1)*padAngle
		if available <= 0 {
			padAngle = 0
			available = a1 - a0
		}

		total := 0.0
		for _, child := range children {
			total += opts.weight(tree, child)
		}

		cursor := a0
		for _, child := range children {
			span := available * opts.weight(tree, child) / total
			divide(child, cursor, cursor+span)
			cursor += span + padAngle
		}
	}
	divide(tree.Root().ID, 0, 2*math.Pi)

	return &Result{
		Mode:   ModeSunburst,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Bounds: boundsOf(nodes),
	}, nil
}

// sectorNode builds an annulus-sector PlacedNode. X and Y land on the
// sector centroid so labels and hover anchors sit inside the wedge; the
// box fields hold a centroid-centered cover of the sector's extent.
func sectorNode(n *lineage.Node, center Point, a0, a1, inner, outer float64) PlacedNode {
	mid := polar(center, (a0+a1)/2, (inner+outer)/2)
	if inner == 0 && a1-a0 >= 2*math.Pi-1e-9 {
		// Root disc: the centroid is the center itself.
		mid = center
	}
	bbox := sectorBounds(center, a0, a1, inner, outer)

	return PlacedNode{
		ID:          n.ID,
		Word:        n.Word,
		Language:    n.Language,
		Meaning:     n.Meaning,
		Era:         n.Era,
		Context:     n.Context,
		Family:      n.Family,
		Depth:       n.Depth,
		Shape:       ShapeSector,
		X:           mid.X,
		Y:           mid.Y,
		Width:       2 * math.Max(mid.X-bbox.MinX, bbox.MaxX-mid.X),
		Height:      2 * math.Max(mid.Y-bbox.MinY, bbox.MaxY-mid.Y),
		StartAngle:  a0,
		EndAngle:    a1,
		InnerRadius: inner,
		OuterRadius: outer,
	}
}

// sectorBounds returns the axis-aligned box around an annulus sector. The
// extremes are the four corners plus any cardinal direction the arc
// crosses at the outer radius.
func sectorBounds(center Point, a0, a1, inner, outer float64) Rect {
	pts := []Point{
		polar(center, a0, inner),
		polar(center, a0, outer),
		polar(center, a1, inner),
		polar(center, a1, outer),
	}
	quarter := math.Pi / 2
	for a := math.Ceil(a0/quarter) * quarter; a <= a1; a += quarter {
		pts = append(pts, polar(center, a, outer))
	}

	b := Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}
