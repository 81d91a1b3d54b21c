package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/mhuisman/etymon/pkg/pipeline"
)

func TestApplyConfigFillsUnsetFields(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Oracle.Model = "oracle-large"
	c.Config.Oracle.MaxDepth = 5
	c.Config.Oracle.MaxNodes = 40
	c.Config.Layout.Mode = "radial"
	c.Config.Layout.Width = 1024
	c.Config.Layout.Height = 768
	c.Config.Render.Formats = []string{"png"}
	c.Config.Render.Tooltips = "compact"

	opts := pipeline.Options{Word: "night"}
	c.applyConfig(&opts)

	if opts.Model != "oracle-large" {
		t.Errorf("Model = %q, want config value", opts.Model)
	}
	if opts.MaxDepth != 5 || opts.MaxNodes != 40 {
		t.Errorf("MaxDepth/MaxNodes = %d/%d, want 5/40", opts.MaxDepth, opts.MaxNodes)
	}
	if opts.Mode != "radial" {
		t.Errorf("Mode = %q, want %q", opts.Mode, "radial")
	}
	if opts.Width != 1024 || opts.Height != 768 {
		t.Errorf("viewport = %gx%g, want 1024x768", opts.Width, opts.Height)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png"}) {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Tooltips != "compact" {
		t.Errorf("Tooltips = %q, want %q", opts.Tooltips, "compact")
	}
}

func TestApplyConfigKeepsExplicitValues(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Layout.Mode = "radial"
	c.Config.Layout.Width = 1024
	c.Config.Render.Formats = []string{"png"}

	opts := pipeline.Options{
		Word:    "night",
		Mode:    "sunburst",
		Width:   640,
		Formats: []string{"pdf"},
	}
	c.applyConfig(&opts)

	if opts.Mode != "sunburst" {
		t.Errorf("Mode = %q, flag value should win over config", opts.Mode)
	}
	if opts.Width != 640 {
		t.Errorf("Width = %g, flag value should win over config", opts.Width)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"pdf"}) {
		t.Errorf("Formats = %v, flag value should win over config", opts.Formats)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" svg , png ", []string{"svg", "png"}},
		{"svg,,png,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"trace", "layout", "render", "modes", "garden", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
}
