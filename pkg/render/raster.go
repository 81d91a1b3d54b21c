package render

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
)

const jpegQuality = 90

// RenderPNG rasterizes the scene at the given pixel scale (2 when
// scale <= 0) and encodes it as PNG.
func RenderPNG(s *Scene, scale float64) ([]byte, error) {
	dc, err := rasterize(s, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterizes like [RenderPNG] and encodes as JPEG.
func RenderJPEG(s *Scene, scale float64) ([]byte, error) {
	dc, err := rasterize(s, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}

func rasterize(s *Scene, scale float64) (*gg.Context, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "no scene to capture")
	}
	if scale <= 0 {
		scale = 2
	}
	dc := gg.NewContext(int(math.Round(s.Width*scale)), int(math.Round(s.Height*scale)))
	dc.Scale(scale, scale)
	dc.SetColor(parseHex(s.Theme.Background))
	dc.Clear()
	for _, sh := range s.Shapes {
		drawShapeRaster(dc, sh)
	}
	return dc, nil
}

func drawShapeRaster(dc *gg.Context, sh Shape) {
	switch sh.Kind {
	case ShapeRect:
		dc.DrawRoundedRectangle(sh.X, sh.Y, sh.W, sh.H, sh.R)
		fillAndStroke(dc, sh)
	case ShapeCircle:
		dc.DrawCircle(sh.X, sh.Y, sh.R)
		fillAndStroke(dc, sh)
	case ShapeSector:
		drawSectorRaster(dc, sh)
	case ShapePath:
		tracePath(dc, sh.Points, true)
		strokeLine(dc, sh)
	case ShapePolyline:
		tracePath(dc, sh.Points, false)
		strokeLine(dc, sh)
	case ShapeBand:
		drawBandRaster(dc, sh)
	case ShapeText:
		dc.SetColor(parseHex(sh.Fill))
		dc.DrawStringAnchored(sh.Text, sh.X, sh.Y, 0.5, 0.5)
	}
}

func fillAndStroke(dc *gg.Context, sh Shape) {
	dc.SetColor(parseHex(sh.Fill))
	dc.FillPreserve()
	if sh.Stroke != "" && sh.StrokeWidth > 0 {
		dc.SetColor(parseHex(sh.Stroke))
		dc.SetLineWidth(sh.StrokeWidth)
		dc.Stroke()
		return
	}
	dc.ClearPath()
}

// drawSectorRaster paints the annulus as one thick arc stroke, then
// thin boundary arcs. Handles full rings without degenerate endpoints.
func drawSectorRaster(dc *gg.Context, sh Shape) {
	mid := (sh.InnerRadius + sh.OuterRadius) / 2
	dc.SetLineCap(gg.LineCapButt)
	dc.SetLineWidth(sh.OuterRadius - sh.InnerRadius)
	dc.SetColor(parseHex(sh.Fill))
	dc.DrawArc(sh.X, sh.Y, mid, sh.StartAngle, sh.EndAngle)
	dc.Stroke()

	if sh.Stroke == "" || sh.StrokeWidth <= 0 {
		return
	}
	dc.SetColor(parseHex(sh.Stroke))
	dc.SetLineWidth(sh.StrokeWidth)
	dc.DrawArc(sh.X, sh.Y, sh.OuterRadius, sh.StartAngle, sh.EndAngle)
	dc.Stroke()
	dc.DrawArc(sh.X, sh.Y, sh.InnerRadius, sh.StartAngle, sh.EndAngle)
	dc.Stroke()
}

func drawBandRaster(dc *gg.Context, sh Shape) {
	if len(sh.Points) < 2 {
		return
	}
	a, b := sh.Points[0], sh.Points[1]
	t := sh.Thickness / 2
	mx := (a.X + b.X) / 2
	dc.MoveTo(a.X, a.Y-t)
	dc.CubicTo(mx, a.Y-t, mx, b.Y-t, b.X, b.Y-t)
	dc.LineTo(b.X, b.Y+t)
	dc.CubicTo(mx, b.Y+t, mx, a.Y+t, a.X, a.Y+t)
	dc.ClosePath()
	dc.SetColor(withAlpha(parseHex(sh.Fill), sh.Opacity))
	dc.Fill()
}

func tracePath(dc *gg.Context, p []layout.Point, cubic bool) {
	if len(p) == 0 {
		return
	}
	dc.MoveTo(p[0].X, p[0].Y)
	if cubic && len(p) >= 4 {
		dc.CubicTo(p[1].X, p[1].Y, p[2].X, p[2].Y, p[3].X, p[3].Y)
		return
	}
	for _, q := range p[1:] {
		dc.LineTo(q.X, q.Y)
	}
}

func strokeLine(dc *gg.Context, sh Shape) {
	dc.SetLineCap(gg.LineCapRound)
	dc.SetColor(withAlpha(parseHex(sh.Stroke), sh.Opacity))
	dc.SetLineWidth(sh.StrokeWidth)
	dc.Stroke()
}

// parseHex reads #rgb and #rrggbb colors; anything else comes back black.
func parseHex(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return c
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return c
	}
	nib := func(b byte) uint8 {
		switch {
		case b >= '0' && b <= '9':
			return b - '0'
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10
		}
		return 0
	}
	c.R = nib(hex[0])<<4 | nib(hex[1])
	c.G = nib(hex[2])<<4 | nib(hex[3])
	c.B = nib(hex[4])<<4 | nib(hex[5])
	return c
}

func withAlpha(c color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	c.A = uint8(255 * opacity)
	return c
}
