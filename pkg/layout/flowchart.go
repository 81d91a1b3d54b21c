package layout

import "github.com/mhuisman/etymon/pkg/lineage"

func init() { register(flowchartStrategy{}) }

// flowchartStrategy stacks every depth level into a strict column, each
// column vertically centered as a group, with orthogonal connectors. The
// difference from the tiered tree: siblings from different parents share
// column slots, so deep bushy trees stay compact at the cost of longer
// edges.
type flowchartStrategy struct{}

func (flowchartStrategy) Name() string { return ModeFlowchart }

func (flowchartStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeFlowchart, vp), nil
	}

	placed := make(map[string]*PlacedNode, tree.NodeCount())
	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for _, n := range tree.Nodes() {
		pn := boxNode(n, opts)
		pn.X = float64(n.Depth)*(opts.NodeWidth+opts.LevelSpacing) + opts.NodeWidth/2
		nodes = append(nodes, pn)
		placed[n.ID] = &nodes[len(nodes)-1]
	}

	// Stack each column top-down in pre-order, then center the column
	// group on the vertical midline of the tallest column.
	step := opts.NodeHeight + opts.SiblingSpacing
	for _, depth := range tree.Depths() {
		column := tree.NodesAtDepth(depth)
		columnHeight := float64(len(column))*opts.NodeHeight + float64(len(column)-1)*opts.SiblingSpacing
		top := -columnHeight / 2
		for i, n := range column {
			placed[n.ID].Y = top + float64(i)*step + opts.NodeHeight/2
		}
	}

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for _, e := range tree.Edges() {
		p, c := placed[e.From], placed[e.To]
		edges = append(edges, stepEdge(e.From, e.To,
			Point{X: p.X + opts.NodeWidth/2, Y: p.Y},
			Point{X: c.X - opts.NodeWidth/2, Y: c.Y},
		))
	}

	bounds := centerInViewport(nodes, edges, vp)
	return &Result{
		Mode:   ModeFlowchart,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: bounds,
	}, nil
}
