package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/mhuisman/etymon/pkg/layout"
)

const hoverCSS = `
    .node { transition: stroke-width 0.15s ease; cursor: pointer; }
    .node.lit { stroke-width: 3; }
    .label { pointer-events: none; }
    .tip { visibility: hidden; pointer-events: none; }
    .tip.lit { visibility: visible; }`

const hoverJS = `
    function lit(id, on) {
      document.querySelectorAll('[data-node="' + id + '"]').forEach(el => el.classList.toggle('lit', on));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => lit(el.dataset.node, true));
      el.addEventListener('mouseleave', () => lit(el.dataset.node, false));
    });`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	tooltips bool
	scale    float64
}

// WithTooltips embeds a hidden hover panel per node, toggled by the
// interaction script.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithScale multiplies the output pixel size; the coordinate system is
// unchanged.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// RenderSVG encodes the scene as a standalone interactive SVG document.
// Returns nil for a nil scene.
func RenderSVG(s *Scene, opts ...SVGOption) []byte {
	if s == nil {
		return nil
	}
	r := svgRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := int(math.Round(s.Width)), int(math.Round(s.Height))
	canvas.Startview(int(math.Round(s.Width*r.scale)), int(math.Round(s.Height*r.scale)), 0, 0, w, h)
	canvas.Rect(0, 0, w, h, "fill:"+s.Theme.Background)

	for _, sh := range s.Shapes {
		drawShapeSVG(canvas, sh)
	}
	if r.tooltips {
		for _, sh := range s.Shapes {
			if sh.Class == "node" && sh.Tooltip != nil {
				drawTooltipSVG(canvas, s, sh)
			}
		}
	}

	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)
	fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", hoverJS)
	canvas.End()
	return buf.Bytes()
}

func drawShapeSVG(canvas *svg.SVG, sh Shape) {
	switch sh.Kind {
	case ShapeRect:
		canvas.Roundrect(round(sh.X), round(sh.Y), round(sh.W), round(sh.H), round(sh.R), round(sh.R),
			nodeAttrs(sh), fillStroke(sh))
	case ShapeCircle:
		canvas.Circle(round(sh.X), round(sh.Y), round(sh.R), nodeAttrs(sh), fillStroke(sh))
	case ShapeSector:
		canvas.Path(sectorPath(sh), nodeAttrs(sh), fillStroke(sh))
	case ShapePath:
		canvas.Path(cubicPath(sh.Points), "class=\"edge\"", strokeOnly(sh))
	case ShapePolyline:
		canvas.Path(linePath(sh.Points), "class=\"edge\"", strokeOnly(sh))
	case ShapeBand:
		canvas.Path(bandPath(sh), "class=\"edge\"",
			fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:none", sh.Fill, sh.Opacity))
	case ShapeText:
		canvas.Text(round(sh.X), round(sh.Y), sh.Text,
			fmt.Sprintf("data-node=%q", sh.ID), "class=\"label\"",
			fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:system-ui,sans-serif;text-anchor:middle;dominant-baseline:middle", sh.Fill, sh.FontSize))
	}
}

func nodeAttrs(sh Shape) string {
	class := "node"
	if sh.Highlight {
		class = "node lit"
	}
	return fmt.Sprintf("id=\"node-%s\" class=%q data-node=%q", sh.ID, class, sh.ID)
}

func fillStroke(sh Shape) string {
	if sh.Stroke == "" {
		return fmt.Sprintf("fill:%s;stroke:none", sh.Fill)
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", sh.Fill, sh.Stroke, sh.StrokeWidth)
}

func strokeOnly(sh Shape) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f", sh.Stroke, sh.StrokeWidth, sh.Opacity)
}

// drawTooltipSVG emits the hidden hover panel for one node, flipped
// left when it would overflow the right edge.
func drawTooltipSVG(canvas *svg.SVG, s *Scene, sh Shape) {
	lines := sh.Tooltip.Lines(TooltipFull)
	if len(lines) == 0 {
		return
	}
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	w := float64(longest)*7 + 20
	h := float64(len(lines))*16 + 14
	x, y := sh.X+16, sh.Y-h/2
	if sh.Kind == ShapeRect {
		x = sh.X + sh.W + 8
		y = sh.Y
	}
	if x+w > s.Width {
		x = sh.X - w - 16
	}
	if y < 0 {
		y = 4
	}
	if y+h > s.Height {
		y = s.Height - h - 4
	}

	canvas.Group("class=\"tip\"", fmt.Sprintf("data-node=%q", sh.ID))
	canvas.Roundrect(round(x), round(y), round(w), round(h), 5, 5,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1;fill-opacity:0.95", s.Theme.Surface, s.Theme.Outline))
	for i, l := range lines {
		fill, size, weight := s.Theme.Muted, 11, "normal"
		if i == 0 {
			fill, size, weight = s.Theme.Text, 12, "600"
		}
		canvas.Text(round(x+10), round(y+20+float64(i)*16), l,
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:system-ui,sans-serif;font-weight:%s", fill, size, weight))
	}
	canvas.Gend()
}

// ===== Path builders =====

func cubicPath(p []layout.Point) string {
	if len(p) < 4 {
		return linePath(p)
	}
	return fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f",
		p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, p[3].X, p[3].Y)
}

func linePath(p []layout.Point) string {
	if len(p) == 0 {
		return ""
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "M%.1f,%.1f", p[0].X, p[0].Y)
	for _, q := range p[1:] {
		fmt.Fprintf(&b, " L%.1f,%.1f", q.X, q.Y)
	}
	return b.String()
}

// bandPath is a sankey ribbon: cubic top edge out, straight cap, cubic
// bottom edge back.
func bandPath(sh Shape) string {
	if len(sh.Points) < 2 {
		return ""
	}
	a, b := sh.Points[0], sh.Points[1]
	t := sh.Thickness / 2
	mx := (a.X + b.X) / 2
	return fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f L%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f Z",
		a.X, a.Y-t, mx, a.Y-t, mx, b.Y-t, b.X, b.Y-t,
		b.X, b.Y+t, mx, b.Y+t, mx, a.Y+t, a.X, a.Y+t)
}

// sectorPath draws an annulus sector around (X, Y). A span of a full
// turn degenerates to coincident arc endpoints, so rings get an
// even-odd two-circle path instead.
func sectorPath(sh Shape) string {
	cx, cy := sh.X, sh.Y
	a0, a1 := sh.StartAngle, sh.EndAngle
	r0, r1 := sh.InnerRadius, sh.OuterRadius
	if a1-a0 >= 2*math.Pi-1e-9 {
		return ringPath(cx, cy, r0, r1)
	}
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	ox0, oy0 := cx+r1*math.Cos(a0), cy+r1*math.Sin(a0)
	ox1, oy1 := cx+r1*math.Cos(a1), cy+r1*math.Sin(a1)
	ix0, iy0 := cx+r0*math.Cos(a0), cy+r0*math.Sin(a0)
	ix1, iy1 := cx+r0*math.Cos(a1), cy+r0*math.Sin(a1)
	if r0 <= 0 {
		return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z",
			cx, cy, ox0, oy0, r1, r1, large, ox1, oy1)
	}
	return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 0 %.1f,%.1f Z",
		ox0, oy0, r1, r1, large, ox1, oy1, ix1, iy1, r0, r0, large, ix0, iy0)
}

// ringPath winds the inner circle backwards so the nonzero fill rule
// leaves the hole open.
func ringPath(cx, cy, r0, r1 float64) string {
	circle := func(r float64, sweep int) string {
		return fmt.Sprintf("M%.1f,%.1f A%.1f,%.1f 0 1 %d %.1f,%.1f A%.1f,%.1f 0 1 %d %.1f,%.1f Z",
			cx+r, cy, r, r, sweep, cx-r, cy, r, r, sweep, cx+r, cy)
	}
	if r0 <= 0 {
		return circle(r1, 1)
	}
	return circle(r1, 1) + " " + circle(r0, 0)
}

func round(f float64) int { return int(math.Round(f)) }
