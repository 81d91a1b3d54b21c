package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(radialStrategy{}) }

// radialStrategy places the root at the viewport center and each depth on
// its own ring. Angular share is proportional to leaf count: same-parent
// siblings sit in adjacent slices, and the gap between leaves from
// different parents is doubled so subtrees read as visual groups.
type radialStrategy struct{}

func (radialStrategy) Name() string { return ModeRadial }

func (radialStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeRadial, vp), nil
	}

	nodes, _, pol := placeRadial(tree, vp, opts)

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for _, e := range tree.Edges() {
		edges = append(edges, radialEdge(e, pol, vp.Center()))
	}

	return &Result{
		Mode:   ModeRadial,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: boundsOf(nodes),
	}, nil
}

// polarPos is a node's polar assignment before conversion to layout
// coordinates.
type polarPos struct {
	angle  float64
	radius float64
}

// placeRadial computes the shared polar placement used by the radial and
// bundle modes.
func placeRadial(tree *lineage.Tree, vp Viewport, opts Options) ([]PlacedNode, map[string]*PlacedNode, map[string]polarPos) {
	center := vp.Center()
	maxRadius := math.Min(vp.Width, vp.Height)/2 - opts.Margin
	if maxRadius < 0 {
		maxRadius = 0
	}

	maxDepth := tree.MaxDepth()
	radiusStep := 0.0
	if maxDepth > 0 {
		radiusStep = maxRadius / float64(maxDepth)
	}

	angles := leafAngles(tree)

	pol := make(map[string]polarPos, tree.NodeCount())
	var assign func(id string) (min, max float64)
	assign = func(id string) (float64, float64) {
		n, _ := tree.Node(id)
		children := tree.Children(id)
		if len(children) == 0 {
			a := angles[id]
			pol[id] = polarPos{angle: a, radius: float64(n.Depth) * radiusStep}
			return a, a
		}
		first, _ := assign(children[0])
		last := first
		for _, child := range children[1:] {
			_, hi := assign(child)
			last = hi
		}
		a := (first + last) / 2
		pol[id] = polarPos{angle: a, radius: float64(n.Depth) * radiusStep}
		return first, last
	}
	assign(tree.Root().ID)

	placed := make(map[string]*PlacedNode, tree.NodeCount())
	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for _, n := range tree.Nodes() {
		pn := circleNode(n, opts)
		p := polar(center, pol[n.ID].angle, pol[n.ID].radius)
		pn.X, pn.Y = p.X, p.Y
		nodes = append(nodes, pn)
		placed[n.ID] = &nodes[len(nodes)-1]
	}
	return nodes, placed, pol
}

// leafAngles distributes leaves around the circle in pre-order. The gap
// unit between adjacent same-parent leaves is 1; between leaves from
// different parents it doubles. The circle closes with one more gap
// between the last and first leaf.
func leafAngles(tree *lineage.Tree) map[string]float64 {
	leaves := tree.Leaves()
	angles := make(map[string]float64, len(leaves))
	if len(leaves) == 0 {
		return angles
	}
	if len(leaves) == 1 {
		// A pure chain: hang it straight up.
		angles[leaves[0].ID] = -math.Pi / 2
		return angles
	}

	sep := func(a, b *lineage.Node) float64 {
		if a.ParentID == b.ParentID {
			return 1
		}
		return 2
	}

	units := make([]float64, len(leaves))
	for i := 1; i < len(leaves); i++ {
		units[i] = units[i-1] + sep(leaves[i-1], leaves[i])
	}
	total := units[len(leaves)-1] + sep(leaves[len(leaves)-1], leaves[0])

	for i, leaf := range leaves {
		angles[leaf.ID] = 2 * math.Pi * units[i] / total
	}
	return angles
}

// radialEdge curves from parent to child along the radial direction:
// both control points sit on the ring halfway between the two radii.
func radialEdge(e lineage.Edge, pol map[string]polarPos, center Point) PlacedEdge {
	p, c := pol[e.From], pol[e.To]
	midR := (p.radius + c.radius) / 2
	return PlacedEdge{
		From: e.From,
		To:   e.To,
		Kind: EdgeCubic,
		Points: []Point{
			polar(center, p.angle, p.radius),
			polar(center, p.angle, midR),
			polar(center, c.angle, midR),
			polar(center, c.angle, c.radius),
		},
	}
}

// circleNode builds a circle-shaped PlacedNode for the polar modes.
func circleNode(n *lineage.Node, opts Options) PlacedNode {
	return PlacedNode{
		ID:       n.ID,
		Word:     n.Word,
		Language: n.Language,
		Meaning:  n.Meaning,
		Era:      n.Era,
		Context:  n.Context,
		Family:   n.Family,
		Depth:    n.Depth,
		Shape:    ShapeCircle,
		Radius:   opts.NodeHeight / 2,
	}
}
