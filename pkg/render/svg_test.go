package render

import (
	"strings"
	"testing"

	"github.com/mhuisman/etymon/pkg/layout"
)

func TestRenderSVGDocument(t *testing.T) {
	s := testScene(ViewState{SearchWord: "sky"})
	doc := string(RenderSVG(s))

	for _, want := range []string{
		`<svg`,
		`viewBox="0 0 800 600"`,
		`id="node-sky-modern-english-0-0"`,
		`data-node="sky-old-norse-1-0"`,
		`class="node"`,
		`class="label"`,
		`<style>`,
		`mouseenter`,
		`</svg>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(doc, "<tooltip") {
		t.Error("unexpected tooltip markup without WithTooltips")
	}
}

func TestRenderSVGNilScene(t *testing.T) {
	if got := RenderSVG(nil); got != nil {
		t.Errorf("RenderSVG(nil) = %q, want nil", got)
	}
}

func TestRenderSVGScale(t *testing.T) {
	s := testScene(ViewState{})
	doc := string(RenderSVG(s, WithScale(2)))
	if !strings.Contains(doc, `width="1600"`) || !strings.Contains(doc, `height="1200"`) {
		t.Errorf("scaled svg missing doubled pixel size")
	}
	if !strings.Contains(doc, `viewBox="0 0 800 600"`) {
		t.Error("scaling must not change the coordinate system")
	}
}

func TestRenderSVGTooltipPanels(t *testing.T) {
	s := testScene(ViewState{})
	doc := string(RenderSVG(s, WithTooltips()))
	if !strings.Contains(doc, `class="tip"`) {
		t.Fatal("tooltip panels missing")
	}
	for _, want := range []string{"the upper atmosphere", "13th century", "Old Norse"} {
		if !strings.Contains(doc, want) {
			t.Errorf("tooltip content missing %q", want)
		}
	}
}

func TestRenderSVGDeterminism(t *testing.T) {
	a := RenderSVG(testScene(ViewState{}))
	b := RenderSVG(testScene(ViewState{}))
	if string(a) != string(b) {
		t.Error("two renders of the same scene differ")
	}
}

// ===== Path builders =====

func TestSectorPathPie(t *testing.T) {
	d := sectorPath(Shape{X: 100, Y: 100, StartAngle: 0, EndAngle: 1.5, InnerRadius: 0, OuterRadius: 50})
	if !strings.HasPrefix(d, "M100.0,100.0") {
		t.Errorf("pie path should start at the center: %q", d)
	}
	if !strings.Contains(d, "A50.0,50.0") || !strings.HasSuffix(d, "Z") {
		t.Errorf("pie path = %q", d)
	}
}

func TestSectorPathAnnulus(t *testing.T) {
	d := sectorPath(Shape{X: 0, Y: 0, StartAngle: 0, EndAngle: 1.0, InnerRadius: 30, OuterRadius: 60})
	if strings.Count(d, "A") != 2 {
		t.Errorf("annulus path needs two arcs: %q", d)
	}
	if !strings.HasPrefix(d, "M60.0,0.0") {
		t.Errorf("annulus path should start on the outer radius: %q", d)
	}
}

func TestSectorPathFullRing(t *testing.T) {
	d := sectorPath(Shape{X: 0, Y: 0, StartAngle: 0, EndAngle: 6.2832, InnerRadius: 30, OuterRadius: 60})
	if strings.Count(d, "Z") != 2 {
		t.Errorf("full ring should be two closed circles: %q", d)
	}
}

func TestCubicPathFallsBackToLine(t *testing.T) {
	if d := cubicPath(nil); d != "" {
		t.Errorf("cubicPath(nil) = %q, want empty", d)
	}
	two := []layout.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}
	if d := cubicPath(two); d != "M0.0,0.0 L10.0,10.0" {
		t.Errorf("cubicPath(two points) = %q", d)
	}
}
