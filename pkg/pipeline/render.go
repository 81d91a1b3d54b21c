package pipeline

import (
	"context"
	"fmt"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/render"
)

// Render encodes the layout in the requested formats, keyed by canonical
// format name. Geometric layouts build a scene and export all formats
// concurrently; dot layouts go through Graphviz one format at a time.
func Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render requires a layout")
	}
	if res.DOT != "" {
		return renderDOT(ctx, res, opts)
	}
	return renderScene(ctx, res, opts)
}

// RenderFromLayoutData renders artifacts from serialized layout data.
// Useful when the layout was computed elsewhere (a cached run, or a
// layout file written by the CLI).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	res, err := layout.ResultFromJSON(layoutData)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "parse layout")
	}
	return Render(ctx, res, opts)
}

func renderScene(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	scene := render.BuildScene(res, opts.viewState())

	formats, err := parseFormats(opts.Formats)
	if err != nil {
		return nil, err
	}

	rendered, err := render.ExportAll(ctx, scene, formats, opts.svgOptions()...)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(rendered))
	for i, a := range rendered {
		artifacts[string(formats[i])] = a.Data
	}
	return artifacts, nil
}

func renderDOT(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	formats, err := parseFormats(opts.Formats)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		a, err := render.ExportDOT(ctx, res, opts.Word, f)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[string(f)] = a.Data
	}
	return artifacts, nil
}

func parseFormats(names []string) ([]render.Format, error) {
	formats := make([]render.Format, len(names))
	for i, name := range names {
		f, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats[i] = f
	}
	return formats, nil
}
