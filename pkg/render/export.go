package render

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
)

// Format identifies an export encoding.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats returns every format [Export] accepts, in menu order.
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatJSON, FormatDOT}
}

// ParseFormat normalizes a user-supplied format name. "jpg" is accepted
// as an alias for jpeg.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatJSON, FormatDOT:
		return f, nil
	case "jpg":
		return FormatJPEG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (available: svg, png, jpeg, pdf, json, dot)", name)
	}
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// MIME returns the content type for the format.
func (f Format) MIME() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Artifact is one encoded export, named and typed for saving or serving.
type Artifact struct {
	Filename string
	MIME     string
	Data     []byte
}

// Filename builds the artifact name: etymon_{word}_{mode}.{ext}, with
// "roots" standing in for an empty word. The word is slugged so the
// name is safe on every filesystem.
func Filename(word, mode string, f Format) string {
	slug := slugify(word)
	if slug == "" {
		slug = "roots"
	}
	return "etymon_" + slug + "_" + mode + "." + f.Ext()
}

func slugify(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(word)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// Export encodes a geometric scene in the requested format. A nil scene
// or the dot format (which has no scene) fails with the
// unsupported-surface code.
func Export(ctx context.Context, s *Scene, format Format, opts ...SVGOption) (*Artifact, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "nothing rendered yet")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = RenderSVG(s, opts...)
	case FormatPNG:
		data, err = RenderPNG(s, 0)
	case FormatJPEG:
		data, err = RenderJPEG(s, 0)
	case FormatPDF:
		data, err = RenderPDF(ctx, s, opts...)
	case FormatJSON:
		data, err = s.ToJSON()
		if err != nil {
			err = errors.Wrap(errors.ErrCodeEncoding, err, "encode scene")
		}
	case FormatDOT:
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "dot output needs the dot mode, not a geometric scene")
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename: Filename(s.Word, s.Mode, format),
		MIME:     format.MIME(),
		Data:     data,
	}, nil
}

// ExportDOT encodes a dot-mode layout result. The DOT source itself,
// its Graphviz SVG, and conversions of that SVG are supported; raster
// formats go through rsvg-convert like PDF does.
func ExportDOT(ctx context.Context, res *layout.Result, word string, format Format) (*Artifact, error) {
	if res == nil || res.DOT == "" {
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "nothing rendered yet")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOT:
		data = []byte(res.DOT)
	case FormatSVG:
		data, err = RenderDOT(ctx, res.DOT)
	case FormatPDF, FormatPNG:
		data, err = RenderDOT(ctx, res.DOT)
		if err == nil {
			data, err = rsvgConvert(ctx, data, string(format))
		}
	case FormatJSON:
		data, err = res.ToJSON()
		if err != nil {
			err = errors.Wrap(errors.ErrCodeEncoding, err, "encode layout")
		}
	case FormatJPEG:
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "jpeg export is not available for the dot mode")
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedSurface, "unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename: Filename(word, layout.ModeDot, format),
		MIME:     format.MIME(),
		Data:     data,
	}, nil
}

// ExportAll encodes the scene in several formats concurrently. The
// first failure cancels the rest and is returned as-is, so its code
// survives for the caller.
func ExportAll(ctx context.Context, s *Scene, formats []Format, opts ...SVGOption) ([]*Artifact, error) {
	g, ctx := errgroup.WithContext(ctx)
	artifacts := make([]*Artifact, len(formats))
	for i, f := range formats {
		g.Go(func() error {
			a, err := Export(ctx, s, f, opts...)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
