package layout

import "github.com/mhuisman/etymon/pkg/lineage"

func init() { register(bundleStrategy{}) }

// bundleStrategy reuses the radial placement but pulls edge curves toward
// the tree channel: control points anchor on the ring halfway between the
// two depths at each endpoint's own angle, then tension decides how hard
// the curve hugs that channel. Tension 1 rides the channel exactly;
// tension 0 degenerates to a straight chord.
type bundleStrategy struct{}

func (bundleStrategy) Name() string { return ModeBundle }

func (bundleStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeBundle, vp), nil
	}

	nodes, _, pol := placeRadial(tree, vp, opts)
	center := vp.Center()

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for _, e := range tree.Edges() {
		p, c := pol[e.From], pol[e.To]
		midR := (p.radius + c.radius) / 2
		start := polar(center, p.angle, p.radius)
		end := polar(center, c.angle, c.radius)
		edges = append(edges, PlacedEdge{
			From: e.From,
			To:   e.To,
			Kind: EdgeBundle,
			Points: []Point{
				start,
				lerp(start, polar(center, p.angle, midR), opts.BundleTension),
				lerp(end, polar(center, c.angle, midR), opts.BundleTension),
				end,
			},
		})
	}

	return &Result{
		Mode:   ModeBundle,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: boundsOf(nodes),
	}, nil
}
