package layout

import "github.com/mhuisman/etymon/pkg/lineage"

func init() { register(tieredStrategy{}) }

// tieredStrategy draws the classic left-to-right tiered tree: one column
// per depth, subtrees stacked without overlap, parents vertically centered
// on their children.
type tieredStrategy struct{}

func (tieredStrategy) Name() string { return ModeTree }

func (tieredStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeTree, vp), nil
	}

	heights := subtreeHeights(tree, opts)

	placed := make(map[string]*PlacedNode, tree.NodeCount())
	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for _, n := range tree.Nodes() {
		pn := boxNode(n, opts)
		pn.X = float64(n.Depth)*(opts.NodeWidth+opts.LevelSpacing) + opts.NodeWidth/2
		nodes = append(nodes, pn)
		placed[n.ID] = &nodes[len(nodes)-1]
	}

	// Assign vertical centers top-down: each subtree owns a band of its
	// computed height, children split the band in input order, and the
	// parent centers itself between its first and last child.
	var assign func(id string, top float64) float64
	assign = func(id string, top float64) float64 {
		node := placed[id]
		children := tree.Children(id)
		if len(children) == 0 {
			node.Y = top + opts.NodeHeight/2
			return node.Y
		}

		childTop := top
		var first, last float64
		for i, child := range children {
			center := assign(child, childTop)
			if i == 0 {
				first = center
			}
			last = center
			childTop += heights[child] + opts.SiblingSpacing
		}
		node.Y = (first + last) / 2
		return node.Y
	}
	assign(tree.Root().ID, 0)

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for _, e := range tree.Edges() {
		p, c := placed[e.From], placed[e.To]
		edges = append(edges, cubicEdge(e.From, e.To,
			Point{X: p.X + opts.NodeWidth/2, Y: p.Y},
			Point{X: c.X - opts.NodeWidth/2, Y: c.Y},
		))
	}

	bounds := centerInViewport(nodes, edges, vp)
	return &Result{
		Mode:   ModeTree,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: bounds,
	}, nil
}

// subtreeHeights computes each subtree's vertical extent bottom-up:
// a leaf is one node tall, an internal node is the sum of its children
// plus the gaps between them.
func subtreeHeights(tree *lineage.Tree, opts Options) map[string]float64 {
	heights := make(map[string]float64, tree.NodeCount())
	var measure func(id string) float64
	measure = func(id string) float64 {
		children := tree.Children(id)
		if len(children) == 0 {
			heights[id] = opts.NodeHeight
			return opts.NodeHeight
		}
		total := 0.0
		for _, child := range children {
			total += measure(child)
		}
		total += float64(len(children)-1) * opts.SiblingSpacing
		if total < opts.NodeHeight {
			total = opts.NodeHeight
		}
		heights[id] = total
		return total
	}
	measure(tree.Root().ID)
	return heights
}
