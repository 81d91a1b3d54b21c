package render

import (
	"math"

	"github.com/mhuisman/etymon/pkg/layout"
)

// Shape kinds. A [Scene] is a flat list of shapes in paint order; Kind
// says which geometry fields apply.
const (
	ShapeRect     = "rect"     // X/Y/W/H, rounded by R
	ShapeCircle   = "circle"   // X/Y center, R radius
	ShapeSector   = "sector"   // annulus sector around X/Y
	ShapePath     = "path"     // cubic Bezier through Points [start, c0, c1, end]
	ShapePolyline = "polyline" // straight segments through Points
	ShapeBand     = "band"     // ribbon from Points[0] to Points[1], Thickness wide
	ShapeText     = "text"     // Text anchored at X/Y
)

// Tooltip styles.
const (
	TooltipFull    = "full"    // word, language, meaning, era, context
	TooltipCompact = "compact" // word and language only
	TooltipOff     = "off"
)

// Shape is one drawable element. The zero value is not valid; BuildScene
// and the sinks agree on which fields each Kind uses.
type Shape struct {
	Kind  string `json:"kind"`
	ID    string `json:"id,omitempty"`    // node id for hover wiring
	Class string `json:"class,omitempty"` // node | edge | label

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`
	R float64 `json:"r,omitempty"`

	// Sector geometry
	StartAngle  float64 `json:"start_angle,omitempty"`
	EndAngle    float64 `json:"end_angle,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty"`
	OuterRadius float64 `json:"outer_radius,omitempty"`

	Points    []layout.Point `json:"points,omitempty"`
	Thickness float64        `json:"thickness,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`

	Highlight bool     `json:"highlight,omitempty"`
	Tooltip   *Tooltip `json:"tooltip,omitempty"`
}

// Tooltip is the hover payload attached to node shapes.
type Tooltip struct {
	Word     string `json:"word"`
	Language string `json:"language"`
	Meaning  string `json:"meaning,omitempty"`
	Era      string `json:"era,omitempty"`
	Context  string `json:"context,omitempty"`
}

// Lines returns the tooltip rows under the given style, title first.
func (t *Tooltip) Lines(style string) []string {
	if t == nil || style == TooltipOff {
		return nil
	}
	lines := []string{t.Word, t.Language}
	if style == TooltipCompact {
		return lines
	}
	for _, s := range []string{t.Meaning, t.Era, t.Context} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// ViewState carries the presentation knobs a layout Result does not:
// they belong to the viewer, not the geometry.
type ViewState struct {
	Dark         bool     `json:"dark"`
	TooltipStyle string   `json:"tooltip_style,omitempty"`
	HoverID      string   `json:"hover_id,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
	SearchWord   string   `json:"search_word,omitempty"`
}

// Scene is the serializable drawing: everything a sink needs to produce
// an artifact, with no reference back to the tree or the strategy that
// made it.
type Scene struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Mode   string  `json:"mode"`
	Word   string  `json:"word,omitempty"`
	Theme  Theme   `json:"theme"`
	Shapes []Shape `json:"shapes"`
}

// BuildScene turns a geometric layout Result into a Scene under the
// given view state. Edges paint before nodes, labels last. Returns nil
// for a nil, empty, or dot-mode result - there is nothing to draw, and
// [Export] maps nil to the unsupported-surface failure.
func BuildScene(res *layout.Result, view ViewState) *Scene {
	if res == nil || res.Empty() || res.DOT != "" {
		return nil
	}
	if view.TooltipStyle == "" {
		view.TooltipStyle = TooltipFull
	}

	theme := Light
	if view.Dark {
		theme = Dark
	}
	marked := make(map[string]bool, len(view.Highlights))
	for _, id := range view.Highlights {
		marked[id] = true
	}

	scene := &Scene{
		Width:  res.Width,
		Height: res.Height,
		Mode:   res.Mode,
		Word:   view.SearchWord,
		Theme:  theme,
		Shapes: make([]Shape, 0, 2*len(res.Nodes)+len(res.Edges)),
	}

	for _, e := range res.Edges {
		scene.Shapes = append(scene.Shapes, edgeShape(e, theme))
	}
	// Sunburst sectors are described by angles and radii around the
	// viewport center; the node's own X/Y is the sector centroid.
	cx, cy := res.Width/2, res.Height/2
	for _, n := range res.Nodes {
		s := nodeShape(n, theme, cx, cy)
		s.Highlight = marked[n.ID] || n.ID == view.HoverID
		if s.Highlight {
			s.Stroke = theme.Accent
			s.StrokeWidth = 3
		}
		if view.TooltipStyle != TooltipOff {
			s.Tooltip = &Tooltip{
				Word:     n.Word,
				Language: n.Language,
				Meaning:  n.Meaning,
				Era:      n.Era,
				Context:  n.Context,
			}
		}
		scene.Shapes = append(scene.Shapes, s)
	}
	for _, n := range res.Nodes {
		scene.Shapes = append(scene.Shapes, labelShapes(n, theme)...)
	}
	return scene
}

func edgeShape(e layout.PlacedEdge, theme Theme) Shape {
	s := Shape{
		Class:       "edge",
		Points:      e.Points,
		Stroke:      theme.Edge,
		StrokeWidth: 1.5,
		Opacity:     0.8,
	}
	switch e.Kind {
	case layout.EdgeCubic, layout.EdgeBundle:
		s.Kind = ShapePath
	case layout.EdgeBand:
		s.Kind = ShapeBand
		s.Thickness = e.Thickness
		s.Fill = theme.Edge
		s.Opacity = 0.45
		s.Stroke = ""
		s.StrokeWidth = 0
	default:
		s.Kind = ShapePolyline
	}
	return s
}

func nodeShape(n layout.PlacedNode, theme Theme, cx, cy float64) Shape {
	s := Shape{
		ID:          n.ID,
		Class:       "node",
		Fill:        FamilyColor(n.Family, theme.Dark),
		Stroke:      theme.Outline,
		StrokeWidth: 1,
	}
	switch n.Shape {
	case layout.ShapeCircle:
		s.Kind = ShapeCircle
		s.X, s.Y, s.R = n.X, n.Y, n.Radius
	case layout.ShapeSector:
		if n.InnerRadius == 0 && n.EndAngle-n.StartAngle >= 2*math.Pi-1e-9 {
			// Root disc of a sunburst.
			s.Kind = ShapeCircle
			s.X, s.Y, s.R = cx, cy, n.OuterRadius
			break
		}
		s.Kind = ShapeSector
		s.X, s.Y = cx, cy
		s.StartAngle, s.EndAngle = n.StartAngle, n.EndAngle
		s.InnerRadius, s.OuterRadius = n.InnerRadius, n.OuterRadius
	default:
		s.Kind = ShapeRect
		s.X, s.Y = n.X-n.Width/2, n.Y-n.Height/2
		s.W, s.H = n.Width, n.Height
		s.R = 6 // corner rounding
	}
	return s
}

// labelShapes emits the word label, plus the language on a second line
// when the node is a box with room for it.
func labelShapes(n layout.PlacedNode, theme Theme) []Shape {
	word := Shape{
		Kind:     ShapeText,
		ID:       n.ID,
		Class:    "label",
		X:        n.X,
		Y:        n.Y,
		Text:     n.Word,
		Fill:     theme.Text,
		FontSize: 13,
	}
	if n.Shape != layout.ShapeBox || n.Height < 36 {
		return []Shape{word}
	}
	word.Y = n.Y - 7
	lang := Shape{
		Kind:     ShapeText,
		ID:       n.ID,
		Class:    "label",
		X:        n.X,
		Y:        n.Y + 9,
		Text:     n.Language,
		Fill:     theme.Muted,
		FontSize: 10,
	}
	return []Shape{word, lang}
}
