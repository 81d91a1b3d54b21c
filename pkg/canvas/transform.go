package canvas

import "github.com/mhuisman/etymon/pkg/layout"

// Zoom bounds. The scale is clamped so a stray scroll can neither
// vanish the tree nor blow a single glyph past the viewport.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Transform maps world (layout) coordinates to screen coordinates:
// screen = world*Scale + T. The zero value is not usable; Identity is
// the no-op transform.
type Transform struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Identity returns the untransformed view.
func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a world point to screen coordinates.
func (t Transform) Apply(p layout.Point) layout.Point {
	return layout.Point{X: p.X*t.Scale + t.TX, Y: p.Y*t.Scale + t.TY}
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(p layout.Point) layout.Point {
	return layout.Point{X: (p.X - t.TX) / t.Scale, Y: (p.Y - t.TY) / t.Scale}
}

// zoomAt returns the transform scaled by factor with the world point
// under (px, py) pinned in place, so zooming dives toward the pointer
// rather than the origin.
func (t Transform) zoomAt(factor, px, py float64) Transform {
	scale := clampZoom(t.Scale * factor)
	w := t.Invert(layout.Point{X: px, Y: py})
	return Transform{
		Scale: scale,
		TX:    px - w.X*scale,
		TY:    py - w.Y*scale,
	}
}

func (t Transform) pan(dx, dy float64) Transform {
	t.TX += dx
	t.TY += dy
	return t
}

func clampZoom(s float64) float64 {
	if s < MinZoom {
		return MinZoom
	}
	if s > MaxZoom {
		return MaxZoom
	}
	return s
}
