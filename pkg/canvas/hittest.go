package canvas

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/mhuisman/etymon/pkg/layout"
)

// hitIndex answers "which node is under this world point" with an
// R-tree over the placed bounding boxes, then an exact shape test on
// the candidates. Nested shapes (pack circles, treemap tiles) resolve
// to the smallest hit, which is the deepest node.
type hitIndex struct {
	rt *rtreego.Rtree
	// Sector geometry is relative to the viewport center.
	cx, cy float64
}

type nodeEntry struct {
	node layout.PlacedNode
	bb   rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect { return e.bb }

func buildHitIndex(res *layout.Result) *hitIndex {
	if res == nil || len(res.Nodes) == 0 {
		return nil
	}
	idx := &hitIndex{
		rt: rtreego.NewTree(2, 2, 8),
		cx: res.Width / 2,
		cy: res.Height / 2,
	}
	for _, n := range res.Nodes {
		box := n.Box()
		w := math.Max(box.MaxX-box.MinX, 0.5)
		h := math.Max(box.MaxY-box.MinY, 0.5)
		bb, err := rtreego.NewRect(rtreego.Point{box.MinX, box.MinY}, []float64{w, h})
		if err != nil {
			continue
		}
		idx.rt.Insert(&nodeEntry{node: n, bb: bb})
	}
	return idx
}

// hit returns the smallest node whose shape contains the world point.
func (idx *hitIndex) hit(p layout.Point) (layout.PlacedNode, bool) {
	candidates := idx.rt.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(0.25))

	var best layout.PlacedNode
	bestArea := math.Inf(1)
	found := false
	for _, c := range candidates {
		e, ok := c.(*nodeEntry)
		if !ok || !idx.contains(e.node, p) {
			continue
		}
		if a := shapeArea(e.node); a < bestArea {
			best, bestArea, found = e.node, a, true
		}
	}
	return best, found
}

func (idx *hitIndex) contains(n layout.PlacedNode, p layout.Point) bool {
	switch n.Shape {
	case layout.ShapeCircle:
		return math.Hypot(p.X-n.X, p.Y-n.Y) <= n.Radius
	case layout.ShapeSector:
		r := math.Hypot(p.X-idx.cx, p.Y-idx.cy)
		if r < n.InnerRadius || r > n.OuterRadius {
			return false
		}
		phi := math.Atan2(p.Y-idx.cy, p.X-idx.cx)
		for _, k := range []float64{-2 * math.Pi, 0, 2 * math.Pi} {
			if a := phi + k; a >= n.StartAngle && a <= n.EndAngle {
				return true
			}
		}
		return false
	default:
		return math.Abs(p.X-n.X) <= n.Width/2 && math.Abs(p.Y-n.Y) <= n.Height/2
	}
}

func shapeArea(n layout.PlacedNode) float64 {
	switch n.Shape {
	case layout.ShapeCircle:
		return math.Pi * n.Radius * n.Radius
	case layout.ShapeSector:
		span := n.EndAngle - n.StartAngle
		return 0.5 * span * (n.OuterRadius*n.OuterRadius - n.InnerRadius*n.InnerRadius)
	default:
		return n.Width * n.Height
	}
}
