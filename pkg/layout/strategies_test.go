package layout

import (
	"math"
	"testing"
)

// findWord returns the placed node carrying the given word.
func findWord(t *testing.T, res *Result, word string) PlacedNode {
	t.Helper()
	for _, n := range res.Nodes {
		if n.Word == word {
			return n
		}
	}
	t.Fatalf("no placed node for word %q", word)
	return PlacedNode{}
}

// ===== Tiered =====

func TestTieredChainIsOneRow(t *testing.T) {
	s, _ := ForMode(ModeTree)
	res, err := s.Layout(buildTree(t, chainRecord()), vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	night := findWord(t, res, "night")
	niht := findWord(t, res, "niht")
	nahts := findWord(t, res, "*nahts")

	// A chain shares one row and marches right one tier per generation.
	if night.Y != niht.Y || niht.Y != nahts.Y {
		t.Errorf("chain not on one row: %.1f %.1f %.1f", night.Y, niht.Y, nahts.Y)
	}
	tier := DefaultNodeWidth + DefaultLevelSpacing
	if !near(niht.X-night.X, tier) || !near(nahts.X-niht.X, tier) {
		t.Errorf("tier spacing: %.1f and %.1f, want %.1f", niht.X-night.X, nahts.X-niht.X, tier)
	}
	if !near(niht.X, 400) || !near(niht.Y, 300) {
		t.Errorf("drawing not centered: middle node at (%.1f, %.1f)", niht.X, niht.Y)
	}
}

func TestTieredParentsCenterOnChildren(t *testing.T) {
	s, _ := ForMode(ModeTree)
	res, err := s.Layout(buildTree(t, branchRecord()), vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	sky := findWord(t, res, "sky")
	norse := findWord(t, res, "ský")
	skiwo := findWord(t, res, "*skiwô")
	skeu := findWord(t, res, "*skeu-")
	skies := findWord(t, res, "skies")

	if want := (skiwo.Y + skeu.Y) / 2; !near(norse.Y, want) {
		t.Errorf("ský.Y = %.1f, want midpoint of children %.1f", norse.Y, want)
	}
	if want := (norse.Y + skies.Y) / 2; !near(sky.Y, want) {
		t.Errorf("sky.Y = %.1f, want midpoint of first and last child %.1f", sky.Y, want)
	}
	if gap := skeu.Y - skiwo.Y; !near(gap, DefaultNodeHeight+DefaultSiblingSpacing) {
		t.Errorf("sibling gap = %.1f, want %.1f", gap, DefaultNodeHeight+DefaultSiblingSpacing)
	}
	for _, e := range res.Edges {
		if e.Kind != EdgeCubic || len(e.Points) != 4 {
			t.Errorf("edge %s->%s: kind %s with %d points", e.From, e.To, e.Kind, len(e.Points))
		}
	}
}

// ===== Flowchart =====

func TestFlowchartColumns(t *testing.T) {
	s, _ := ForMode(ModeFlowchart)
	tree := buildTree(t, branchRecord())
	res, err := s.Layout(tree, vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// All nodes of one depth share a column, and every column group is
	// centered on the viewport midline.
	byDepth := map[int][]PlacedNode{}
	for _, n := range res.Nodes {
		byDepth[n.Depth] = append(byDepth[n.Depth], n)
	}
	for depth, col := range byDepth {
		minY, maxY := col[0].Y, col[0].Y
		for _, n := range col {
			if n.X != col[0].X {
				t.Errorf("depth %d: X %.1f and %.1f in one column", depth, n.X, col[0].X)
			}
			minY = math.Min(minY, n.Y)
			maxY = math.Max(maxY, n.Y)
		}
		if mid := (minY + maxY) / 2; !near(mid, 300) {
			t.Errorf("depth %d: column midline %.1f, want 300", depth, mid)
		}
	}

	for _, e := range res.Edges {
		if e.Kind != EdgeStep {
			t.Errorf("edge %s->%s: kind %s, want step", e.From, e.To, e.Kind)
		}
	}
}

// ===== Fishbone =====

func TestFishboneRibsAlternate(t *testing.T) {
	s, _ := ForMode(ModeFishbone)
	res, err := s.Layout(buildTree(t, branchRecord()), vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	sky := findWord(t, res, "sky")
	norse := findWord(t, res, "ský")
	sceo := findWord(t, res, "scēo")
	skies := findWord(t, res, "skies")

	// Ribs alternate starting above the spine.
	if norse.Y >= sky.Y {
		t.Errorf("first rib below spine: %.1f >= %.1f", norse.Y, sky.Y)
	}
	if sceo.Y <= sky.Y {
		t.Errorf("second rib above spine: %.1f <= %.1f", sceo.Y, sky.Y)
	}
	if skies.Y >= sky.Y {
		t.Errorf("third rib below spine: %.1f >= %.1f", skies.Y, sky.Y)
	}

	// Deeper rib nodes keep climbing away from the spine.
	skiwo := findWord(t, res, "*skiwô")
	if skiwo.Y >= norse.Y || skiwo.X <= norse.X {
		t.Errorf("rib does not climb: ský (%.1f, %.1f) -> *skiwô (%.1f, %.1f)",
			norse.X, norse.Y, skiwo.X, skiwo.Y)
	}

	for _, e := range res.Edges {
		fromRoot := e.From == sky.ID
		if fromRoot && (e.Kind != EdgeStep || len(e.Points) != 3) {
			t.Errorf("spine edge %s->%s: kind %s with %d points", e.From, e.To, e.Kind, len(e.Points))
		}
		if !fromRoot && e.Kind != EdgeLine {
			t.Errorf("rib edge %s->%s: kind %s, want line", e.From, e.To, e.Kind)
		}
	}
}

// ===== Radial =====

func TestRadialRings(t *testing.T) {
	s, _ := ForMode(ModeRadial)
	tree := buildTree(t, branchRecord())
	res, err := s.Layout(tree, vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// maxRadius = min(800,600)/2 - margin = 260; two rings of 130.
	const step = 130.0
	for _, n := range res.Nodes {
		dist := math.Hypot(n.X-400, n.Y-300)
		if want := step * float64(n.Depth); !near(dist, want) {
			t.Errorf("%s: ring distance %.1f, want %.1f", n.Word, dist, want)
		}
		if n.Shape != ShapeCircle {
			t.Errorf("%s: shape %s, want circle", n.Word, n.Shape)
		}
	}
}

func TestRadialLeafGapsDouble(t *testing.T) {
	s, _ := ForMode(ModeRadial)
	res, err := s.Layout(buildTree(t, branchRecord()), vp800(), Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	angle := func(n PlacedNode) float64 {
		a := math.Atan2(n.Y-300, n.X-400)
		if a < 0 {
			a += 2 * math.Pi
		}
		return a
	}
	skiwo := angle(findWord(t, res, "*skiwô"))
	skeu := angle(findWord(t, res, "*skeu-"))
	skewja := angle(findWord(t, res, "*skewją"))

	sameParent := skeu - skiwo
	crossParent := skewja - skeu
	if ratio := crossParent / sameParent; math.Abs(ratio-2) > 0.01 {
		t.Errorf("cross-parent gap / same-parent gap = %.3f, want 2", ratio)
	}
}

// ===== Bundle =====

func TestBundleControlPointsRideChannel(t *testing.T) {
	s, _ := ForMode(ModeBundle)
	tree := buildTree(t, branchRecord())
	res, err := s.Layout(tree, vp800(), Options{BundleTension: 1})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	dist := func(p Point) float64 { return math.Hypot(p.X-400, p.Y-300) }
	for _, e := range res.Edges {
		if e.Kind != EdgeBundle || len(e.Points) != 4 {
			t.Fatalf("edge %s->%s: kind %s with %d points", e.From, e.To, e.Kind, len(e.Points))
		}
		// Full tension parks both control points on the ring halfway
		// between the endpoint depths.
		midR := (dist(e.Points[0]) + dist(e.Points[3])) / 2
		if !near(dist(e.Points[1]), midR) || !near(dist(e.Points[2]), midR) {
			t.Errorf("edge %s->%s: control radii %.1f, %.1f, want %.1f",
				e.From, e.To, dist(e.Points[1]), dist(e.Points[2]), midR)
		}
	}
}
