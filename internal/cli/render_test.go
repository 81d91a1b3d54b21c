package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhuisman/etymon/pkg/render"
)

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		word   string
		mode   string
		output string
		format render.Format
		single bool
		want   string
	}{
		{
			name:   "no output uses standard name",
			word:   "night",
			mode:   "tree",
			format: render.FormatSVG,
			single: true,
			want:   "etymon_night_tree.svg",
		},
		{
			name:   "single format respects output",
			word:   "night",
			mode:   "tree",
			output: "out/custom.svg",
			format: render.FormatSVG,
			single: true,
			want:   "out/custom.svg",
		},
		{
			name:   "multiple formats treat output as base",
			word:   "night",
			mode:   "radial",
			output: "night.svg",
			format: render.FormatPNG,
			single: false,
			want:   "night.png",
		},
		{
			name:   "jpeg artifacts use the jpg extension",
			word:   "night",
			mode:   "tree",
			output: "base",
			format: render.FormatJPEG,
			single: false,
			want:   "base.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.word, tt.mode, tt.output, tt.format, tt.single)
			if got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArtifactBase(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"night.svg", "night"},
		{"night.jpg", "night"},
		{"dir/night.pdf", "dir/night"},
		{"night", "night"},
		{"night.layout", "night.layout"}, // unknown extension stays
	}

	for _, tt := range tests {
		if got := artifactBase(tt.output); got != tt.want {
			t.Errorf("artifactBase(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestFormatsInclude(t *testing.T) {
	formats := []string{"png", "jpg"}

	if !formatsInclude(formats, render.FormatPNG) {
		t.Error("formatsInclude() should find png")
	}
	if !formatsInclude(formats, render.FormatJPEG) {
		t.Error("formatsInclude() should match jpeg via the jpg alias")
	}
	if formatsInclude(formats, render.FormatSVG) {
		t.Error("formatsInclude() should not find svg")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()

	err := writeArtifacts(artifactWriteParams{
		word:    "night",
		mode:    "tree",
		output:  filepath.Join(dir, "night.svg"),
		formats: []string{"svg", "png"},
		artifacts: map[string][]byte{
			"svg": []byte("<svg/>"),
			"png": []byte{0x89, 0x50, 0x4e, 0x47},
		},
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "night.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if string(svg) != "<svg/>" {
		t.Errorf("svg content = %q, want %q", svg, "<svg/>")
	}

	if _, err := os.Stat(filepath.Join(dir, "night.png")); err != nil {
		t.Errorf("png artifact missing: %v", err)
	}
}

func TestWriteArtifactsSingleKeepsExactPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom-name.data")

	err := writeArtifacts(artifactWriteParams{
		word:      "night",
		mode:      "tree",
		output:    path,
		formats:   []string{"svg"},
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact should land at the exact output path: %v", err)
	}
}

func TestWriteArtifactsUnknownFormat(t *testing.T) {
	err := writeArtifacts(artifactWriteParams{
		word:      "night",
		mode:      "tree",
		formats:   []string{"bmp"},
		artifacts: map[string][]byte{},
	})
	if err == nil {
		t.Fatal("writeArtifacts() should reject unknown formats")
	}
}
