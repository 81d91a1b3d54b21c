package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(packStrategy{}) }

// packStrategy nests circles: every node is a circle, children sit on a
// ring inside their parent, and the parent is the smallest circle that
// encloses the ring. Leaf area tracks weight (radius grows with the
// square root), so heavier branches read bigger. Sizing happens in a
// scratch coordinate space bottom-up, then the whole root circle is
// scaled to fit the viewport. The ring construction is closed-form plus
// bisection, so equal inputs always pack identically.
type packStrategy struct{}

func (packStrategy) Name() string { return ModePack }

func (packStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModePack, vp), nil
	}

	circles := make(map[string]*packCircle, tree.NodeCount())

	var size func(id string) float64
	size = func(id string) float64 {
		children := tree.Children(id)
		if len(children) == 0 {
			r := math.Sqrt(opts.weight(tree, id)) * opts.NodeHeight / 2
			circles[id] = &packCircle{r: r}
			return r
		}
		radii := make([]float64, len(children))
		for i, child := range children {
			radii[i] = size(child)
		}
		offsets, enclosing := packRing(radii, opts.Padding)
		for i, child := range children {
			circles[child].off = offsets[i]
		}
		circles[id] = &packCircle{r: enclosing}
		return enclosing
	}
	rootR := size(tree.Root().ID)

	maxRadius := math.Min(vp.Width, vp.Height)/2 - opts.Margin
	if maxRadius <= 0 {
		maxRadius = math.Min(vp.Width, vp.Height) / 2
	}
	scale := maxRadius / rootR

	center := vp.Center()
	abs := map[string]Point{tree.Root().ID: center}
	nodes := make([]PlacedNode, 0, tree.NodeCount())
	for _, n := range tree.Nodes() {
		if n.ParentID != "" {
			p := abs[n.ParentID]
			off := circles[n.ID].off
			abs[n.ID] = Point{X: p.X + off.X*scale, Y: p.Y + off.Y*scale}
		}
		pn := circleNode(n, opts)
		pn.X, pn.Y = abs[n.ID].X, abs[n.ID].Y
		pn.Radius = circles[n.ID].r * scale
		nodes = append(nodes, pn)
	}

	return &Result{
		Mode:   ModePack,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Bounds: boundsOf(nodes),
	}, nil
}

// packCircle is a node's circle in scratch space: radius plus the offset
// from its parent's center.
type packCircle struct {
	r   float64
	off Point
}

// packRing places sibling circles on a common ring inside their parent.
// Adjacent circles (including last back to first) must clear each other
// by pad, which fixes a minimum angular step per pair; the smallest ring
// radius where the steps still close the circle comes from bisection.
// When the ring is loose the circles spread evenly instead of clumping.
// Returns the offsets and the enclosing radius.
func packRing(radii []float64, pad float64) ([]Point, float64) {
	if len(radii) == 1 {
		return []Point{{}}, radii[0] + pad
	}

	// Angular step needed between neighbors i and i+1 at ring radius R.
	step := func(i int, ringR float64) float64 {
		j := (i + 1) % len(radii)
		t := (radii[i] + radii[j] + pad) / (2 * ringR)
		return 2 * math.Asin(math.Min(1, t))
	}
	turn := func(ringR float64) float64 {
		sum := 0.0
		for i := range radii {
			sum += step(i, ringR)
		}
		return sum
	}

	// Lower bound keeps every asin argument valid; upper bound always fits.
	lo, hi := 0.0, pad
	for i := range radii {
		j := (i + 1) % len(radii)
		lo = math.Max(lo, (radii[i]+radii[j]+pad)/2)
		hi += radii[i] + pad
	}
	hi = math.Max(lo, hi)

	ringR := lo
	if turn(lo) > 2*math.Pi {
		for range 48 {
			mid := (lo + hi) / 2
			if turn(mid) > 2*math.Pi {
				lo = mid
			} else {
				hi = mid
			}
			ringR = hi
		}
	}

	loose := turn(ringR) < 2*math.Pi-1e-9
	offsets := make([]Point, len(radii))
	angle := -math.Pi / 2
	for i := range radii {
		offsets[i] = Point{X: ringR * math.Cos(angle), Y: ringR * math.Sin(angle)}
		if loose {
			angle += 2 * math.Pi / float64(len(radii))
		} else {
			angle += step(i, ringR)
		}
	}

	maxR := 0.0
	for _, r := range radii {
		maxR = math.Max(maxR, r)
	}
	return offsets, ringR + maxR + pad
}
