package render

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/mhuisman/etymon/pkg/errors"
)

// converterName is a var so tests can point it at a missing binary.
var converterName = "rsvg-convert"

// RenderPDF converts the scene to PDF by piping its SVG encoding
// through rsvg-convert. Requires librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux). When the tool is missing the error
// carries the capture-restricted code and points at the SVG format,
// which needs no external converter.
func RenderPDF(ctx context.Context, s *Scene, opts ...SVGOption) ([]byte, error) {
	doc := RenderSVG(s, opts...)
	if doc == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "no scene to capture")
	}
	return rsvgConvert(ctx, doc, "pdf")
}

func rsvgConvert(ctx context.Context, svg []byte, format string) ([]byte, error) {
	if _, err := exec.LookPath(converterName); err != nil {
		return nil, errors.New(errors.ErrCodeCaptureRestricted,
			"%s export requires librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin); the svg format works without it", format)
	}

	cmd := exec.CommandContext(ctx, converterName, "-f", format)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "%s: %s", converterName, errBuf.String())
	}
	return out.Bytes(), nil
}
