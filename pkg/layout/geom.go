package layout

import (
	"math"

	"github.com/mhuisman/etymon/pkg/lineage"
)

// boxNode builds a box-shaped PlacedNode carrying the tooltip payload.
// Position is filled in by the caller.
func boxNode(n *lineage.Node, opts Options) PlacedNode {
	return PlacedNode{
		ID:       n.ID,
		Word:     n.Word,
		Language: n.Language,
		Meaning:  n.Meaning,
		Era:      n.Era,
		Context:  n.Context,
		Family:   n.Family,
		Depth:    n.Depth,
		Shape:    ShapeBox,
		Width:    opts.NodeWidth,
		Height:   opts.NodeHeight,
	}
}

// emptyResult is the answer to a zero-size viewport: valid, drawable as
// nothing, never NaN.
func emptyResult(mode string, vp Viewport) *Result {
	return &Result{Mode: mode, Width: vp.Width, Height: vp.Height}
}

// boundsOf computes the bounding box over all placed nodes.
func boundsOf(nodes []PlacedNode) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	b := nodes[0].Box()
	for _, n := range nodes[1:] {
		nb := n.Box()
		b.MinX = math.Min(b.MinX, nb.MinX)
		b.MinY = math.Min(b.MinY, nb.MinY)
		b.MaxX = math.Max(b.MaxX, nb.MaxX)
		b.MaxY = math.Max(b.MaxY, nb.MaxY)
	}
	return b
}

// centerInViewport translates all geometry so the drawing's bounding box
// is centered in the viewport, then returns the recomputed bounds.
func centerInViewport(nodes []PlacedNode, edges []PlacedEdge, vp Viewport) Rect {
	b := boundsOf(nodes)
	c := b.Center()
	dx := vp.Width/2 - c.X
	dy := vp.Height/2 - c.Y
	translate(nodes, edges, dx, dy)
	return Rect{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

func translate(nodes []PlacedNode, edges []PlacedEdge, dx, dy float64) {
	for i := range nodes {
		nodes[i].X += dx
		nodes[i].Y += dy
	}
	for i := range edges {
		for j := range edges[i].Points {
			edges[i].Points[j].X += dx
			edges[i].Points[j].Y += dy
		}
	}
}

// polar converts an (angle, radius) pair around a center into layout
// coordinates. Angles are radians from the positive x axis, clockwise on
// screen because y grows downward.
func polar(center Point, angle, radius float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// cubicEdge builds a horizontal cubic Bezier from the parent's right edge
// to the child's left edge, control points at the horizontal midpoint.
func cubicEdge(from, to string, start, end Point) PlacedEdge {
	midX := (start.X + end.X) / 2
	return PlacedEdge{
		From: from,
		To:   to,
		Kind: EdgeCubic,
		Points: []Point{
			start,
			{X: midX, Y: start.Y},
			{X: midX, Y: end.Y},
			end,
		},
	}
}

// stepEdge builds an orthogonal connector from the parent's right edge to
// the child's left edge.
func stepEdge(from, to string, start, end Point) PlacedEdge {
	midX := (start.X + end.X) / 2
	return PlacedEdge{
		From: from,
		To:   to,
		Kind: EdgeStep,
		Points: []Point{
			start,
			{X: midX, Y: start.Y},
			{X: midX, Y: end.Y},
			end,
		},
	}
}

// lerp interpolates between two points.
func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
