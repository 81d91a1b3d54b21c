package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(treemapStrategy{}) }

// treemapStrategy tiles the viewport with nested rectangles. Each node
// owns a rect; its children split the rect's interior along the longer
// side, each slice proportional to its weight. A strip at the top of
// every internal rect stays clear so the parent's word remains readable
// after its children are drawn on top.
type treemapStrategy struct{}

func (treemapStrategy) Name() string { return ModeTreemap }

func (treemapStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeTreemap, vp), nil
	}

	outer := insetRect(Rect{MaxX: vp.Width, MaxY: vp.Height}, opts.Margin)
	if outer.Width() <= 0 || outer.Height() <= 0 {
		outer = Rect{MaxX: vp.Width, MaxY: vp.Height}
	}

	nodes := make([]PlacedNode, 0, tree.NodeCount())

	var divide func(id string, r Rect)
	divide = func(id string, r Rect) {
		n, _ := tree.Node(id)
		pn := boxNode(n, opts)
		c := r.Center()
		pn.X, pn.Y = c.X, c.Y
		pn.Width, pn.Height = r.Width(), r.Height()
		nodes = append(nodes, pn)

		children := tree.Children(id)
		if len(children) == 0 {
			return
		}

		inner := insetRect(r, opts.Padding)
		inner.MinY = math.Min(inner.MinY+labelStrip(opts, inner), inner.MaxY)

		horizontal := inner.Width() >= inner.Height()
		length := inner.Height()
		if horizontal {
			length = inner.Width()
		}
		pad := opts.Padding
		available := length - float64(len(children)-1)*pad
		if available <= 0 {
			pad = 0
			available = math.Max(length, 0)
		}

		total := 0.0
		for _, child := range children {
			total += opts.weight(tree, child)
		}

		cursor := inner.MinX
		if !horizontal {
			cursor = inner.MinY
		}
		for _, child := range children {
			share := available * opts.weight(tree, child) / total
			var cr Rect
			if horizontal {
				cr = Rect{MinX: cursor, MinY: inner.MinY, MaxX: cursor + share, MaxY: inner.MaxY}
			} else {
				cr = Rect{MinX: inner.MinX, MinY: cursor, MaxX: inner.MaxX, MaxY: cursor + share}
			}
			divide(child, cr)
			cursor += share + pad
		}
	}
	divide(tree.Root().ID, outer)

	return &Result{
		Mode:   ModeTreemap,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
		Bounds: boundsOf(nodes),
	}, nil
}

// labelStrip is the height reserved at the top of an internal rect for
// the parent's own label. It shrinks with the rect so tiny tiles don't
// go negative.
func labelStrip(opts Options, inner Rect) float64 {
	return math.Min(opts.NodeHeight/2, inner.Height()/4)
}

// insetRect shrinks a rect by pad on every side, collapsing to its
// center instead of inverting when the rect is too small.
func insetRect(r Rect, pad float64) Rect {
	out := Rect{MinX: r.MinX + pad, MinY: r.MinY + pad, MaxX: r.MaxX - pad, MaxY: r.MaxY - pad}
	if out.MinX > out.MaxX {
		mid := (r.MinX + r.MaxX) / 2
		out.MinX, out.MaxX = mid, mid
	}
	if out.MinY > out.MaxY {
		mid := (r.MinY + r.MaxY) / 2
		out.MinY, out.MaxY = mid, mid
	}
	return out
}
