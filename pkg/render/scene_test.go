package render

import (
	"testing"

	"github.com/mhuisman/etymon/pkg/layout"
)

// ===== Fixtures =====

// testResult mixes every node shape and edge kind a strategy can emit.
func testResult() *layout.Result {
	return &layout.Result{
		Mode:   "tree",
		Width:  800,
		Height: 600,
		Nodes: []layout.PlacedNode{
			{
				ID: "sky-modern-english-0-0", Word: "sky", Language: "Modern English",
				Meaning: "the upper atmosphere", Era: "13th century", Family: "Germanic",
				Shape: layout.ShapeBox, X: 400, Y: 100, Width: 120, Height: 44,
			},
			{
				ID: "sky-old-norse-1-0", Word: "ský", Language: "Old Norse", Family: "Germanic",
				Shape: layout.ShapeCircle, X: 250, Y: 300, Radius: 22,
			},
			{
				ID: "skiwo-proto-germanic-2-0", Word: "*skiwô", Language: "Proto-Germanic", Family: "Germanic",
				Shape: layout.ShapeSector, X: 480, Y: 340,
				StartAngle: 0, EndAngle: 1.2, InnerRadius: 80, OuterRadius: 140,
			},
		},
		Edges: []layout.PlacedEdge{
			{
				From: "sky-modern-english-0-0", To: "sky-old-norse-1-0", Kind: layout.EdgeCubic,
				Points: []layout.Point{{X: 400, Y: 122}, {X: 400, Y: 200}, {X: 250, Y: 220}, {X: 250, Y: 278}},
			},
			{
				From: "sky-old-norse-1-0", To: "skiwo-proto-germanic-2-0", Kind: layout.EdgeBand,
				Points: []layout.Point{{X: 272, Y: 300}, {X: 400, Y: 300}}, Thickness: 18,
			},
		},
		Bounds: layout.Rect{MinX: 40, MinY: 40, MaxX: 760, MaxY: 560},
	}
}

func testScene(view ViewState) *Scene {
	return BuildScene(testResult(), view)
}

func findShape(s *Scene, class, id string) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.Class == class && sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// ===== BuildScene =====

func TestBuildSceneNilInputs(t *testing.T) {
	if got := BuildScene(nil, ViewState{}); got != nil {
		t.Errorf("BuildScene(nil) = %v, want nil", got)
	}
	empty := &layout.Result{Mode: "tree", Width: 800, Height: 600}
	if got := BuildScene(empty, ViewState{}); got != nil {
		t.Errorf("BuildScene(empty) = %v, want nil", got)
	}
	dot := &layout.Result{Mode: layout.ModeDot, DOT: "digraph {}"}
	if got := BuildScene(dot, ViewState{}); got != nil {
		t.Errorf("BuildScene(dot result) = %v, want nil", got)
	}
}

func TestBuildSceneShapeMapping(t *testing.T) {
	s := testScene(ViewState{SearchWord: "sky"})
	if s == nil {
		t.Fatal("BuildScene returned nil")
	}
	if s.Width != 800 || s.Height != 600 || s.Mode != "tree" || s.Word != "sky" {
		t.Errorf("scene header = %gx%g %q %q", s.Width, s.Height, s.Mode, s.Word)
	}

	// 2 edges + 3 nodes + 4 labels (the box is tall enough for a
	// language line, circle and sector get the word only).
	if len(s.Shapes) != 9 {
		t.Fatalf("len(Shapes) = %d, want 9", len(s.Shapes))
	}

	box, ok := findShape(s, "node", "sky-modern-english-0-0")
	if !ok || box.Kind != ShapeRect {
		t.Fatalf("box node = %+v, ok=%v", box, ok)
	}
	if box.X != 340 || box.Y != 78 || box.W != 120 || box.H != 44 {
		t.Errorf("rect geometry = (%g, %g, %g, %g), want corner (340, 78) size (120, 44)", box.X, box.Y, box.W, box.H)
	}

	circle, ok := findShape(s, "node", "sky-old-norse-1-0")
	if !ok || circle.Kind != ShapeCircle || circle.R != 22 {
		t.Errorf("circle node = %+v, ok=%v", circle, ok)
	}

	sector, ok := findShape(s, "node", "skiwo-proto-germanic-2-0")
	if !ok || sector.Kind != ShapeSector {
		t.Fatalf("sector node = %+v, ok=%v", sector, ok)
	}
	if sector.X != 400 || sector.Y != 300 {
		t.Errorf("sector center = (%g, %g), want viewport center (400, 300)", sector.X, sector.Y)
	}
	if sector.InnerRadius != 80 || sector.OuterRadius != 140 {
		t.Errorf("sector radii = (%g, %g)", sector.InnerRadius, sector.OuterRadius)
	}

	// Edges paint before nodes.
	if s.Shapes[0].Class != "edge" || s.Shapes[1].Class != "edge" {
		t.Errorf("first shapes = %q, %q, want edges first", s.Shapes[0].Class, s.Shapes[1].Class)
	}
	if s.Shapes[0].Kind != ShapePath {
		t.Errorf("cubic edge kind = %q, want %q", s.Shapes[0].Kind, ShapePath)
	}
	if s.Shapes[1].Kind != ShapeBand || s.Shapes[1].Thickness != 18 {
		t.Errorf("band edge = %+v", s.Shapes[1])
	}
}

func TestBuildSceneFullDiscBecomesCircle(t *testing.T) {
	res := &layout.Result{
		Mode: "sunburst", Width: 800, Height: 600,
		Nodes: []layout.PlacedNode{{
			ID: "root", Word: "night", Language: "English", Family: "Germanic",
			Shape: layout.ShapeSector, X: 400, Y: 300,
			StartAngle: 0, EndAngle: 6.2832, InnerRadius: 0, OuterRadius: 86,
		}},
	}
	s := BuildScene(res, ViewState{})
	sh, ok := findShape(s, "node", "root")
	if !ok {
		t.Fatal("root shape missing")
	}
	if sh.Kind != ShapeCircle || sh.R != 86 || sh.X != 400 || sh.Y != 300 {
		t.Errorf("root disc = %+v, want circle r=86 at center", sh)
	}
}

func TestBuildSceneHighlights(t *testing.T) {
	s := testScene(ViewState{
		HoverID:    "sky-old-norse-1-0",
		Highlights: []string{"sky-modern-english-0-0"},
	})
	for _, id := range []string{"sky-old-norse-1-0", "sky-modern-english-0-0"} {
		sh, _ := findShape(s, "node", id)
		if !sh.Highlight {
			t.Errorf("node %s not highlighted", id)
		}
		if sh.Stroke != Light.Accent || sh.StrokeWidth != 3 {
			t.Errorf("node %s stroke = %q width %g, want accent width 3", id, sh.Stroke, sh.StrokeWidth)
		}
	}
	sector, _ := findShape(s, "node", "skiwo-proto-germanic-2-0")
	if sector.Highlight {
		t.Error("unmarked node highlighted")
	}
}

func TestBuildSceneTooltips(t *testing.T) {
	full := testScene(ViewState{})
	sh, _ := findShape(full, "node", "sky-modern-english-0-0")
	if sh.Tooltip == nil {
		t.Fatal("tooltip missing under default view state")
	}
	if sh.Tooltip.Word != "sky" || sh.Tooltip.Meaning != "the upper atmosphere" {
		t.Errorf("tooltip = %+v", sh.Tooltip)
	}

	off := testScene(ViewState{TooltipStyle: TooltipOff})
	sh, _ = findShape(off, "node", "sky-modern-english-0-0")
	if sh.Tooltip != nil {
		t.Errorf("tooltip present with style off: %+v", sh.Tooltip)
	}
}

func TestBuildSceneThemes(t *testing.T) {
	light := testScene(ViewState{})
	dark := testScene(ViewState{Dark: true})
	if light.Theme.Dark || !dark.Theme.Dark {
		t.Errorf("theme flags: light.Dark=%v dark.Dark=%v", light.Theme.Dark, dark.Theme.Dark)
	}
	if light.Theme.Background == dark.Theme.Background {
		t.Error("light and dark backgrounds are identical")
	}
	ln, _ := findShape(light, "node", "sky-modern-english-0-0")
	dn, _ := findShape(dark, "node", "sky-modern-english-0-0")
	if ln.Fill == dn.Fill {
		t.Errorf("family fill does not follow the theme: %q", ln.Fill)
	}
}

func TestTooltipLines(t *testing.T) {
	tip := &Tooltip{Word: "night", Language: "English", Meaning: "the dark hours", Era: "before 900"}
	if got := tip.Lines(TooltipFull); len(got) != 4 || got[0] != "night" {
		t.Errorf("full lines = %v", got)
	}
	if got := tip.Lines(TooltipCompact); len(got) != 2 || got[1] != "English" {
		t.Errorf("compact lines = %v", got)
	}
	if got := tip.Lines(TooltipOff); got != nil {
		t.Errorf("off lines = %v, want nil", got)
	}
	var nilTip *Tooltip
	if got := nilTip.Lines(TooltipFull); got != nil {
		t.Errorf("nil tooltip lines = %v, want nil", got)
	}
}

func TestFamilyColorFallback(t *testing.T) {
	if FamilyColor("Martian", false) != FamilyColor("Other", false) {
		t.Error("unknown family should use the Other color")
	}
	if FamilyColor("Germanic", false) == FamilyColor("Germanic", true) {
		t.Error("light and dark fills should differ")
	}
}
