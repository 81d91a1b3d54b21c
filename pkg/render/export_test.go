package render

import (
	"bytes"
	"context"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
)

func testTree(t *testing.T) *lineage.Tree {
	t.Helper()
	rec := &etymology.Node{
		Word:     "night",
		Language: "English",
		Meaning:  "the dark part of the day",
		Children: []*etymology.Node{
			{
				Word: "niht", Language: "Old English", Era: "before 900",
				Children: []*etymology.Node{{Word: "*nahts", Language: "Proto-Germanic"}},
			},
		},
	}
	tree, err := lineage.Normalize(rec, lineage.Options{})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	return tree
}

// ===== Formats and filenames =====

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{" jpeg ", FormatJPEG, false},
		{"dot", FormatDOT, false},
		{"webp", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil || !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want INVALID_FORMAT", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		word, mode string
		format     Format
		want       string
	}{
		{"night", "tree", FormatSVG, "etymon_night_tree.svg"},
		{"Night Sky", "radial", FormatPNG, "etymon_night-sky_radial.png"},
		{"", "sunburst", FormatJPEG, "etymon_roots_sunburst.jpg"},
		{"  ", "dot", FormatDOT, "etymon_roots_dot.dot"},
		{"wæter", "tree", FormatPDF, "etymon_wæter_tree.pdf"},
		{"../etc", "pack", FormatJSON, "etymon_etc_pack.json"},
	}
	for _, tt := range tests {
		if got := Filename(tt.word, tt.mode, tt.format); got != tt.want {
			t.Errorf("Filename(%q, %q, %q) = %q, want %q", tt.word, tt.mode, tt.format, got, tt.want)
		}
	}
}

// ===== Raster sinks =====

func TestRenderPNGDimensions(t *testing.T) {
	data, err := RenderPNG(testScene(ViewState{}), 1)
	if err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("png size = %dx%d, want 800x600", b.Dx(), b.Dy())
	}
}

func TestRenderPNGDefaultScaleDoubles(t *testing.T) {
	data, err := RenderPNG(testScene(ViewState{}), 0)
	if err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1600 || b.Dy() != 1200 {
		t.Errorf("png size = %dx%d, want 1600x1200", b.Dx(), b.Dy())
	}
}

func TestRenderJPEGMagic(t *testing.T) {
	data, err := RenderJPEG(testScene(ViewState{Dark: true}), 1)
	if err != nil {
		t.Fatalf("RenderJPEG error: %v", err)
	}
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Errorf("jpeg magic = % x", data[:2])
	}
}

func TestRasterNilScene(t *testing.T) {
	if _, err := RenderPNG(nil, 1); !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("RenderPNG(nil) error = %v, want UNSUPPORTED_SURFACE", err)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
	}{
		{"#1f2430", 0x1f, 0x24, 0x30},
		{"#FFF", 0xff, 0xff, 0xff},
		{"#abc", 0xaa, 0xbb, 0xcc},
		{"garbage", 0, 0, 0},
		{"", 0, 0, 0},
	}
	for _, tt := range tests {
		c := parseHex(tt.in)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 0xff {
			t.Errorf("parseHex(%q) = %+v", tt.in, c)
		}
	}
}

// ===== PDF conversion =====

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(context.Background(), testScene(ViewState{}))
	if _, lookErr := exec.LookPath(converterName); lookErr != nil {
		if !errors.Is(err, errors.ErrCodeCaptureRestricted) {
			t.Fatalf("without converter, error = %v, want CAPTURE_RESTRICTED", err)
		}
		if !strings.Contains(err.Error(), "svg") {
			t.Errorf("capture-restricted message should recommend svg: %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("RenderPDF error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("pdf magic = %q", data[:4])
	}
}

func TestRenderPDFMissingConverter(t *testing.T) {
	orig := converterName
	converterName = "rsvg-convert-definitely-not-installed"
	defer func() { converterName = orig }()

	_, err := RenderPDF(context.Background(), testScene(ViewState{}))
	if !errors.Is(err, errors.ErrCodeCaptureRestricted) {
		t.Errorf("error = %v, want CAPTURE_RESTRICTED", err)
	}
}

// ===== Dot mode =====

func TestToDOT(t *testing.T) {
	tree := testTree(t)
	dot := ToDOT(tree, DOTOptions{})

	for _, want := range []string{
		"digraph etymology {",
		"rankdir=TB;",
		`"night-english-0-0"`,
		`"niht-old-english-1-0" -> "nahts-proto-germanic-2-0";`,
		"penwidth=2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q in:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "penwidth=2") != 1 {
		t.Error("only the root should be emphasized")
	}
	if strings.Contains(dot, "the dark part of the day") {
		t.Error("meaning leaked into a non-detailed label")
	}

	detailed := ToDOT(tree, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "the dark part of the day") {
		t.Error("detailed label missing the meaning")
	}
}

func TestToDOTNilTree(t *testing.T) {
	if got := ToDOT(nil, DOTOptions{}); got != "" {
		t.Errorf("ToDOT(nil) = %q, want empty", got)
	}
}

func TestDOTResult(t *testing.T) {
	tree := testTree(t)
	res, err := DOTResult(tree, layout.Viewport{Width: 800, Height: 600}, DOTOptions{})
	if err != nil {
		t.Fatalf("DOTResult error: %v", err)
	}
	if res.Mode != layout.ModeDot || res.Engine != "dot" || res.DOT == "" {
		t.Errorf("result = mode %q engine %q dot %d bytes", res.Mode, res.Engine, len(res.DOT))
	}
	if res.Empty() {
		t.Error("dot result should not be empty")
	}

	if _, err := DOTResult(nil, layout.Viewport{}, DOTOptions{}); err == nil {
		t.Error("DOTResult(nil) should fail")
	}
}

func TestRenderDOT(t *testing.T) {
	svg, err := RenderDOT(context.Background(), ToDOT(testTree(t), DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderDOT error: %v", err)
	}
	doc := string(svg)
	if !strings.Contains(doc, "<svg") || !strings.Contains(doc, "night") {
		t.Errorf("graphviz svg looks wrong: %.120s", doc)
	}
}

func TestRenderDOTEmpty(t *testing.T) {
	if _, err := RenderDOT(context.Background(), ""); !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("RenderDOT(\"\") error = %v, want UNSUPPORTED_SURFACE", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="134pt" height="188pt" viewBox="0.00 0.00 134.00 188.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="134" height="188"`) {
		t.Errorf("normalized tag = %s", out)
	}
	if strings.Contains(out, "pt\"") {
		t.Error("point units survived normalization")
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); !bytes.Equal(got, noBox) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

// ===== Export dispatch =====

func TestExportSVG(t *testing.T) {
	art, err := Export(context.Background(), testScene(ViewState{SearchWord: "sky"}), FormatSVG)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if art.Filename != "etymon_sky_tree.svg" {
		t.Errorf("filename = %q", art.Filename)
	}
	if art.MIME != "image/svg+xml" || len(art.Data) == 0 {
		t.Errorf("artifact = %q, %d bytes", art.MIME, len(art.Data))
	}
}

func TestExportNilScene(t *testing.T) {
	_, err := Export(context.Background(), nil, FormatSVG)
	if !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("error = %v, want UNSUPPORTED_SURFACE", err)
	}
}

func TestExportDOTFormatOnScene(t *testing.T) {
	_, err := Export(context.Background(), testScene(ViewState{}), FormatDOT)
	if !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("error = %v, want UNSUPPORTED_SURFACE", err)
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	art, err := Export(context.Background(), testScene(ViewState{SearchWord: "sky"}), FormatJSON)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	s, err := SceneFromJSON(art.Data)
	if err != nil {
		t.Fatalf("SceneFromJSON error: %v", err)
	}
	if s.Mode != "tree" || len(s.Shapes) != 9 {
		t.Errorf("round-tripped scene = mode %q, %d shapes", s.Mode, len(s.Shapes))
	}
}

func TestExportDOTArtifacts(t *testing.T) {
	res, err := DOTResult(testTree(t), layout.Viewport{Width: 800, Height: 600}, DOTOptions{})
	if err != nil {
		t.Fatalf("DOTResult error: %v", err)
	}

	art, err := ExportDOT(context.Background(), res, "night", FormatDOT)
	if err != nil {
		t.Fatalf("ExportDOT error: %v", err)
	}
	if art.Filename != "etymon_night_dot.dot" || string(art.Data) != res.DOT {
		t.Errorf("dot artifact = %q, %d bytes", art.Filename, len(art.Data))
	}

	if _, err := ExportDOT(context.Background(), res, "night", FormatJPEG); !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("jpeg on dot mode error = %v, want UNSUPPORTED_SURFACE", err)
	}
	if _, err := ExportDOT(context.Background(), nil, "night", FormatDOT); !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("nil result error = %v, want UNSUPPORTED_SURFACE", err)
	}
}

func TestExportAll(t *testing.T) {
	arts, err := ExportAll(context.Background(), testScene(ViewState{SearchWord: "sky"}),
		[]Format{FormatSVG, FormatJSON, FormatPNG})
	if err != nil {
		t.Fatalf("ExportAll error: %v", err)
	}
	if len(arts) != 3 {
		t.Fatalf("len(artifacts) = %d, want 3", len(arts))
	}
	wantNames := []string{"etymon_sky_tree.svg", "etymon_sky_tree.json", "etymon_sky_tree.png"}
	for i, want := range wantNames {
		if arts[i] == nil || arts[i].Filename != want {
			t.Errorf("artifact[%d] = %+v, want %q", i, arts[i], want)
		}
	}
}

func TestExportAllPropagatesFailure(t *testing.T) {
	_, err := ExportAll(context.Background(), testScene(ViewState{}), []Format{FormatSVG, FormatDOT})
	if !errors.Is(err, errors.ErrCodeUnsupportedSurface) {
		t.Errorf("error = %v, want UNSUPPORTED_SURFACE", err)
	}
}
