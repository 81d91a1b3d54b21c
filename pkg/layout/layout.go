package layout

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mhuisman/etymon/pkg/lineage"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Layout modes.
const (
	ModeTree      = "tree"
	ModeFlowchart = "flowchart"
	ModeFishbone  = "fishbone"
	ModeRadial    = "radial"
	ModeBundle    = "bundle"
	ModeForce     = "force"
	ModeSunburst  = "sunburst"
	ModeTreemap   = "treemap"
	ModePack      = "pack"
	ModeSankey    = "sankey"

	// ModeDot renders through Graphviz rather than a geometric strategy.
	// It shares the Result serialization but not the Strategy interface.
	ModeDot = "dot"
)

// Node shapes. Strategies declare what each placed node is so renderers
// and hit-testers interpret the geometry fields correctly.
const (
	ShapeBox    = "box"    // X/Y center with Width/Height
	ShapeCircle = "circle" // X/Y center with Radius
	ShapeSector = "sector" // annulus sector: angles plus radii, X/Y is the centroid
)

// Edge kinds.
const (
	EdgeLine   = "line"   // straight segment: Points[0] to Points[1]
	EdgeCubic  = "cubic"  // cubic Bezier: Points = [start, c0, c1, end]
	EdgeStep   = "step"   // orthogonal polyline through Points
	EdgeBundle = "bundle" // bundled cubic: Points = [start, c0, c1, end]
	EdgeBand   = "band"   // sankey ribbon: Points = [start, end], Thickness set
)

var (
	// ErrUnknownMode is returned by [ForMode] for an unregistered mode name.
	ErrUnknownMode = errors.New("unknown layout mode")

	// ErrNilTree is returned by strategies when the tree is nil.
	ErrNilTree = errors.New("layout requires a tree")
)

// =============================================================================
// Geometry
// =============================================================================

// Viewport is the available drawing area at layout time.
type Viewport struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Empty reports whether the viewport has no drawable area. Strategies
// answer an empty viewport with an empty Result instead of an error.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Center returns the viewport midpoint.
func (v Viewport) Center() Point { return Point{X: v.Width / 2, Y: v.Height / 2} }

// Point is a position in layout coordinates. Origin is the top-left of
// the viewport, y grows downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns the horizontal span of the rect.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rect.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the rect midpoint.
func (r Rect) Center() Point { return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2} }

// Contains reports whether the point lies inside the rect (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// =============================================================================
// Result - Unified Layout Format
// =============================================================================

// PlacedNode is one positioned node. X and Y are always the node's center;
// Shape says which size fields apply. The tooltip payload rides along so a
// Result is self-contained for rendering and caching.
type PlacedNode struct {
	ID       string         `json:"id" bson:"id"`
	Word     string         `json:"word" bson:"word"`
	Language string         `json:"language" bson:"language"`
	Meaning  string         `json:"meaning,omitempty" bson:"meaning,omitempty"`
	Era      string         `json:"era,omitempty" bson:"era,omitempty"`
	Context  string         `json:"context,omitempty" bson:"context,omitempty"`
	Family   lineage.Family `json:"family" bson:"family"`
	Depth    int            `json:"depth" bson:"depth"`

	Shape  string  `json:"shape" bson:"shape"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	// Circle geometry (ShapeCircle)
	Radius float64 `json:"radius,omitempty" bson:"radius,omitempty"`

	// Sector geometry (ShapeSector). Angles in radians, measured from the
	// positive x axis, growing clockwise in screen coordinates.
	StartAngle  float64 `json:"start_angle,omitempty" bson:"start_angle,omitempty"`
	EndAngle    float64 `json:"end_angle,omitempty" bson:"end_angle,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty" bson:"inner_radius,omitempty"`
	OuterRadius float64 `json:"outer_radius,omitempty" bson:"outer_radius,omitempty"`
}

// Box returns the node's axis-aligned bounding box. For circles and
// sectors this is the box around the full extent, which is what hover
// indexing wants.
func (n PlacedNode) Box() Rect {
	switch n.Shape {
	case ShapeCircle:
		return Rect{MinX: n.X - n.Radius, MinY: n.Y - n.Radius, MaxX: n.X + n.Radius, MaxY: n.Y + n.Radius}
	case ShapeSector:
		if n.Width > 0 || n.Height > 0 {
			return Rect{MinX: n.X - n.Width/2, MinY: n.Y - n.Height/2, MaxX: n.X + n.Width/2, MaxY: n.Y + n.Height/2}
		}
		r := n.OuterRadius
		return Rect{MinX: n.X - r, MinY: n.Y - r, MaxX: n.X + r, MaxY: n.Y + r}
	default:
		return Rect{MinX: n.X - n.Width/2, MinY: n.Y - n.Height/2, MaxX: n.X + n.Width/2, MaxY: n.Y + n.Height/2}
	}
}

// PlacedEdge is one parent-to-child connection with drawable geometry.
type PlacedEdge struct {
	From      string  `json:"from" bson:"from"`
	To        string  `json:"to" bson:"to"`
	Kind      string  `json:"kind" bson:"kind"`
	Points    []Point `json:"points" bson:"points"`
	Thickness float64 `json:"thickness,omitempty" bson:"thickness,omitempty"`
}

// Result is the unified serialization format for all layout modes.
//
// This is a discriminated union - check Mode to know what to expect:
// geometric modes populate Nodes and Edges; the dot mode populates DOT
// and Engine instead. Width and Height echo the viewport the layout was
// computed for.
type Result struct {
	Mode   string  `json:"mode" bson:"mode"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Nodes  []PlacedNode `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges  []PlacedEdge `json:"edges,omitempty" bson:"edges,omitempty"`
	Bounds Rect         `json:"bounds" bson:"bounds"`

	// Force-specific
	Seed       uint64 `json:"seed,omitempty" bson:"seed,omitempty"`
	Iterations int    `json:"iterations,omitempty" bson:"iterations,omitempty"`

	// Dot-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// Empty reports whether the result carries no geometry. Layouts of empty
// viewports are empty; renderers skip them.
func (r *Result) Empty() bool { return len(r.Nodes) == 0 && r.DOT == "" }

// Node returns the placed node with the given ID and true, or a zero node
// and false. Lookup is linear; results are small and render-bound.
func (r *Result) Node(id string) (PlacedNode, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// =============================================================================
// Strategy Registry
// =============================================================================

// Strategy is one interchangeable layout algorithm.
//
// Layout must be a pure function of its inputs: no hidden state, no clock,
// no unseeded randomness. It must tolerate a single-node tree and answer
// an empty viewport with an empty Result.
type Strategy interface {
	// Name returns the mode string the strategy registers under.
	Name() string
	// Layout positions every tree node within the viewport.
	Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error)
}

var strategies = map[string]Strategy{}

// register adds a strategy at package init. Panics on duplicates, which
// would mean two files claim the same mode.
func register(s Strategy) {
	if _, dup := strategies[s.Name()]; dup {
		panic(fmt.Sprintf("layout: duplicate strategy %q", s.Name()))
	}
	strategies[s.Name()] = s
}

// ForMode returns the strategy registered for the mode.
// Returns ErrUnknownMode for names no strategy claims (including ModeDot,
// which is not a geometric strategy).
func ForMode(mode string) (Strategy, error) {
	s, ok := strategies[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMode, mode, Modes())
	}
	return s, nil
}

// Modes returns all registered mode names in sorted order.
func Modes() []string {
	return slices.Sorted(maps.Keys(strategies))
}

// IsMode reports whether the name is a registered geometric mode or the
// dot mode. Input validation uses this before dispatching a pipeline run.
func IsMode(name string) bool {
	if name == ModeDot {
		return true
	}
	_, ok := strategies[name]
	return ok
}
