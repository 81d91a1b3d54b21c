package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(fishboneStrategy{}) }

// fishboneStrategy draws an Ishikawa-style diagram: the root heads a
// horizontal spine, each depth-1 subtree becomes a rib slanting off the
// spine, alternating above and below, with deeper nodes distributed along
// their rib.
type fishboneStrategy struct{}

// ribAngle is the slant of ribs off the spine.
const ribAngle = math.Pi / 4

func (fishboneStrategy) Name() string { return ModeFishbone }

func (fishboneStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeFishbone, vp), nil
	}

	placed := make(map[string]*PlacedNode, tree.NodeCount())
	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for _, n := range tree.Nodes() {
		pn := boxNode(n, opts)
		nodes = append(nodes, pn)
		placed[n.ID] = &nodes[len(nodes)-1]
	}

	root := tree.Root()
	placed[root.ID].X = 0
	placed[root.ID].Y = 0

	// Consecutive boxes on a rib need enough travel that their vertical
	// extents clear each other at the slant.
	ribSpacing := opts.NodeWidth + opts.LevelSpacing
	ribStep := (opts.NodeHeight + opts.SiblingSpacing) * math.Sqrt2

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for i, ribRootID := range root.ChildIDs {
		anchor := Point{X: float64(i+1) * ribSpacing, Y: 0}
		side := 1.0 // below the spine
		if i%2 == 0 {
			side = -1 // above
		}
		dir := Point{X: math.Cos(ribAngle), Y: side * math.Sin(ribAngle)}

		// Flatten the rib subtree in pre-order and march it up the rib.
		slot := 0
		var walk func(id, parentID string)
		walk = func(id, parentID string) {
			slot++
			p := placed[id]
			p.X = anchor.X + dir.X*ribStep*float64(slot)
			p.Y = anchor.Y + dir.Y*ribStep*float64(slot)
			if parentID == root.ID {
				// Spine edge: out the spine, then up the rib.
				edges = append(edges, PlacedEdge{
					From: parentID,
					To:   id,
					Kind: EdgeStep,
					Points: []Point{
						{X: placed[parentID].X + opts.NodeWidth/2, Y: placed[parentID].Y},
						anchor,
						{X: p.X, Y: p.Y},
					},
				})
			} else {
				edges = append(edges, PlacedEdge{
					From:   parentID,
					To:     id,
					Kind:   EdgeLine,
					Points: []Point{{X: placed[parentID].X, Y: placed[parentID].Y}, {X: p.X, Y: p.Y}},
				})
			}
			for _, child := range tree.Children(id) {
				walk(child, id)
			}
		}
		walk(ribRootID, root.ID)
	}

	bounds := centerInViewport(nodes, edges, vp)
	return &Result{
		Mode:   ModeFishbone,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: bounds,
	}, nil
}
