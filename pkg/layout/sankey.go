package layout

import (
	"math"
	"slices"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(sankeyStrategy{}) }

// sankeyPasses bounds the barycenter ordering sweeps. Alternating
// direction settles within a few passes on tree-shaped flows.
const sankeyPasses = 8

// sankeyStrategy draws descent as flow: one column per depth tier, each
// node a bar whose height is its flow (one unit per edge, minimum one),
// connected by ribbons one unit thick. Columns are reordered with a
// barycenter sweep so ribbons cross as little as possible; candidate
// orderings are scored with the Fenwick crossing counter and the best
// one wins.
type sankeyStrategy struct{}

func (sankeyStrategy) Name() string { return ModeSankey }

func (sankeyStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeSankey, vp), nil
	}

	maxDepth := tree.MaxDepth()
	columns := make([][]string, maxDepth+1)
	for d := 0; d <= maxDepth; d++ {
		for _, n := range tree.NodesAtDepth(d) {
			columns[d] = append(columns[d], n.ID)
		}
	}
	columns = orderColumns(tree, columns)

	// One unit of flow per edge. A node is as tall as its larger side:
	// leaves receive one unit, internal nodes emit one per child.
	flow := func(id string) float64 {
		return math.Max(1, float64(len(tree.Children(id))))
	}

	// The unit scale is set by the tightest column, capped so a single
	// unit never exceeds a regular node height.
	availH := vp.Height - 2*opts.Margin
	if availH <= 0 {
		availH = vp.Height
	}
	scale := opts.NodeHeight
	for _, col := range columns {
		total := 0.0
		for _, id := range col {
			total += flow(id)
		}
		if s := (availH - float64(len(col)-1)*opts.SiblingSpacing) / total; s < scale {
			scale = s
		}
	}
	if scale <= 0 {
		scale = 1
	}

	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for d, col := range columns {
		colH := float64(len(col)-1) * opts.SiblingSpacing
		for _, id := range col {
			colH += flow(id) * scale
		}
		x := opts.Margin + opts.NodeWidth/2 + float64(d)*(opts.NodeWidth+opts.LevelSpacing)
		y := vp.Height/2 - colH/2
		for _, id := range col {
			n, _ := tree.Node(id)
			h := flow(id) * scale
			pn := boxNode(n, opts)
			pn.X, pn.Y = x, y+h/2
			pn.Height = h
			nodes = append(nodes, pn)
			y += h + opts.SiblingSpacing
		}
	}

	placed := make(map[string]*PlacedNode, len(nodes))
	for i := range nodes {
		placed[nodes[i].ID] = &nodes[i]
	}

	edges := make([]PlacedEdge, 0, tree.NodeCount()-1)
	for _, n := range tree.Nodes() {
		children := tree.Children(n.ID)
		if len(children) == 0 {
			continue
		}
		// Hand out outgoing slots top to bottom in child bar order so
		// ribbons leave the parent without twisting.
		sorted := slices.Clone(children)
		slices.SortStableFunc(sorted, func(a, b string) int {
			switch ya, yb := placed[a].Y, placed[b].Y; {
			case ya < yb:
				return -1
			case ya > yb:
				return 1
			default:
				return 0
			}
		})
		p := placed[n.ID]
		slotY := p.Y - float64(len(children))*scale/2 + scale/2
		for _, child := range sorted {
			c := placed[child]
			edges = append(edges, PlacedEdge{
				From:      n.ID,
				To:        child,
				Kind:      EdgeBand,
				Points:    []Point{{X: p.X + p.Width/2, Y: slotY}, {X: c.X - c.Width/2, Y: c.Y}},
				Thickness: scale,
			})
			slotY += scale
		}
	}

	bounds := centerInViewport(nodes, edges, vp)

	return &Result{
		Mode:   ModeSankey,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Edges:  edges,
		Bounds: bounds,
	}, nil
}

// orderColumns runs alternating barycenter sweeps over the depth columns
// and returns the ordering with the fewest ribbon crossings seen.
func orderColumns(tree *lineage.Tree, columns [][]string) [][]string {
	if len(columns) < 2 {
		return columns
	}
	best := cloneColumns(columns)
	bestScore := countCrossings(tree, best)

	current := cloneColumns(columns)
	for pass := 0; pass < sankeyPasses && bestScore > 0; pass++ {
		if pass%2 == 0 {
			for d := 1; d < len(current); d++ {
				sortByBarycenter(tree, current[d], current[d-1], true)
			}
		} else {
			for d := len(current) - 2; d >= 0; d-- {
				sortByBarycenter(tree, current[d], current[d+1], false)
			}
		}
		if score := countCrossings(tree, current); score < bestScore {
			best, bestScore = cloneColumns(current), score
		}
	}
	return best
}

// sortByBarycenter reorders a column in place by each node's average
// neighbor position in the adjacent column. Nodes with no neighbor there
// keep their current position. The sort is stable, so ties never
// reshuffle and the result is deterministic.
func sortByBarycenter(tree *lineage.Tree, column, adjacent []string, useParents bool) {
	pos := make(map[string]float64, len(adjacent))
	for i, id := range adjacent {
		pos[id] = float64(i)
	}
	key := make(map[string]float64, len(column))
	for i, id := range column {
		key[id] = float64(i)
		if useParents {
			if p, ok := tree.Parent(id); ok {
				if v, ok := pos[p.ID]; ok {
					key[id] = v
				}
			}
			continue
		}
		sum, n := 0.0, 0
		for _, child := range tree.Children(id) {
			if v, ok := pos[child]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			key[id] = sum / float64(n)
		}
	}
	slices.SortStableFunc(column, func(a, b string) int {
		switch {
		case key[a] < key[b]:
			return -1
		case key[a] > key[b]:
			return 1
		default:
			return 0
		}
	})
}

func cloneColumns(columns [][]string) [][]string {
	out := make([][]string, len(columns))
	for i, col := range columns {
		out[i] = slices.Clone(col)
	}
	return out
}
