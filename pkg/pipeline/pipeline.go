// Package pipeline chains trace -> layout -> render behind one Runner.
//
// The CLI and the HTTP API both drive visualization through this package,
// so options validation, stage caching, and timing behave identically no
// matter which surface a request came in on.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Trace: fetch a word's ancestry from the oracle and normalize the
//     raw record into a canonical lineage tree
//  2. Layout: position every tree node under the requested mode
//  3. Render: encode the placed geometry into artifacts (SVG, PNG, ...)
//
// Each stage caches its output under a content-addressed key: traces by
// word and trace options, layouts by tree hash and layout options,
// artifacts by layout hash and render options. Stages can be run
// independently or as one Execute call.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, tracer, logger)
//	opts := pipeline.Options{
//	    Word:    "night",
//	    Mode:    "radial",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Trace only
//	tree, err := runner.Trace(ctx, opts)
//
//	// Layout an existing tree
//	res, err := runner.GenerateLayout(ctx, tree, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuisman/etymon/pkg/cache"
	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the ancestry depth requested from the oracle.
	// This is intentionally more conservative than etymology.DefaultMaxDepth
	// (25) so default trees stay readable at default viewport sizes. API
	// users can override it by setting MaxDepth explicitly.
	DefaultMaxDepth = 8

	// DefaultMaxNodes is the word-form cap for a trace. This matches
	// etymology.DefaultMaxNodes (500) to maintain consistency.
	DefaultMaxNodes = 500

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for force-mode reproducibility.
	DefaultSeed = uint64(42)
)

// DefaultMode is the default layout mode.
const DefaultMode = layout.ModeTree

// DefaultTooltips is the default tooltip style on rendered artifacts.
const DefaultTooltips = render.TooltipFull

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Trace options
	Word     string `json:"word"`
	Model    string `json:"model,omitempty"` // generation model override
	MaxDepth int    `json:"max_depth,omitempty"`
	MaxNodes int    `json:"max_nodes,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"` // bypass cached traces

	// Layout options
	Mode           string  `json:"mode,omitempty"`
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	NodeWidth      float64 `json:"node_width,omitempty"`
	NodeHeight     float64 `json:"node_height,omitempty"`
	LevelSpacing   float64 `json:"level_spacing,omitempty"`
	SiblingSpacing float64 `json:"sibling_spacing,omitempty"`
	Margin         float64 `json:"margin,omitempty"`
	Weighting      string  `json:"weighting,omitempty"` // subtree or uniform
	Seed           uint64  `json:"seed,omitempty"`
	Iterations     int     `json:"iterations,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Dark     bool     `json:"dark,omitempty"`
	Tooltips string   `json:"tooltips,omitempty"` // full, compact, off
	Scale    float64  `json:"scale,omitempty"`    // raster/SVG scale factor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the normalized lineage tree.
	Tree *lineage.Tree

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Layout is the placed geometry (or DOT source for the dot mode).
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	TraceTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TraceHit  bool // Whether the trace came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an export format is valid.
func ValidateFormat(format string) error {
	_, err := render.ParseFormat(format)
	return err
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a layout mode is valid, counting the dot mode.
func ValidateMode(mode string) error {
	if !layout.IsMode(mode) {
		return errors.New(errors.ErrCodeInvalidMode,
			"invalid mode %q (available: %s, dot)", mode, strings.Join(layout.Modes(), ", "))
	}
	return nil
}

// ValidateTooltips checks that a tooltip style is valid.
func ValidateTooltips(style string) error {
	switch style {
	case render.TooltipFull, render.TooltipCompact, render.TooltipOff:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid tooltip style %q (must be one of: full, compact, off)", style)
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTrace(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForTrace checks required fields for the trace stage.
func (o *Options) ValidateForTrace() error {
	o.Word = strings.TrimSpace(o.Word)
	if o.Word == "" {
		return errors.New(errors.ErrCodeInvalidWord, "word is required")
	}

	// Trace defaults
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateMode(o.Mode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	if o.Tooltips == "" {
		o.Tooltips = DefaultTooltips
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering. Format
// names are canonicalized in place, so "jpg" comes out as "jpeg".
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	for i, name := range o.Formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		o.Formats[i] = string(f)
	}
	return ValidateTooltips(o.Tooltips)
}

// IsDot reports whether this run renders through Graphviz instead of a
// geometric strategy.
func (o *Options) IsDot() bool {
	return o.Mode == layout.ModeDot
}

// Detailed reports whether dot-mode labels carry meaning and era lines.
// Follows the tooltip style: full tooltips mean detailed labels.
func (o *Options) Detailed() bool {
	return o.Tooltips == render.TooltipFull || o.Tooltips == ""
}

// TraceKeyOpts returns cache key options for the trace stage.
func (o *Options) TraceKeyOpts() cache.TraceKeyOpts {
	return cache.TraceKeyOpts{
		Model:    o.Model,
		MaxDepth: o.MaxDepth,
		MaxNodes: o.MaxNodes,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Mode:           o.Mode,
		Width:          o.Width,
		Height:         o.Height,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		LevelSpacing:   o.LevelSpacing,
		SiblingSpacing: o.SiblingSpacing,
		Margin:         o.Margin,
		Weighting:      o.Weighting,
		Seed:           o.Seed,
		Iterations:     o.Iterations,
	}
	// The dot source bakes in palette and label detail; geometric
	// layouts are palette-independent and must not key on them.
	if o.IsDot() {
		k.Dark = o.Dark
		k.Detailed = o.Detailed()
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Tooltips,
		Dark:   o.Dark,
		Scale:  o.Scale,
	}
}

// traceOptions maps pipeline options onto the fetch layer, bridging the
// structured logger into the oracle's printf-style callback.
func (o *Options) traceOptions() etymology.Options {
	opts := etymology.Options{
		MaxDepth: o.MaxDepth,
		MaxNodes: o.MaxNodes,
		Refresh:  o.Refresh,
		Model:    o.Model,
	}
	if o.Logger != nil {
		logger := o.Logger
		opts.Logger = func(format string, args ...any) {
			logger.Warnf(format, args...)
		}
	}
	return opts
}

// layoutOptions maps pipeline options onto the strategy knobs.
func (o *Options) layoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		LevelSpacing:   o.LevelSpacing,
		SiblingSpacing: o.SiblingSpacing,
		Margin:         o.Margin,
		Weighting:      layout.Weighting(o.Weighting),
		Seed:           o.Seed,
		Iterations:     o.Iterations,
	}
}

// dotOptions maps pipeline options onto dot-mode generation.
func (o *Options) dotOptions() render.DOTOptions {
	return render.DOTOptions{
		Detailed: o.Detailed(),
		Dark:     o.Dark,
	}
}

// viewState maps pipeline options onto the scene view.
func (o *Options) viewState() render.ViewState {
	return render.ViewState{
		Dark:         o.Dark,
		TooltipStyle: o.Tooltips,
		SearchWord:   o.Word,
	}
}

// svgOptions builds the SVG sink options shared by every vector-backed
// format (SVG itself and the PDF conversion).
func (o *Options) svgOptions() []render.SVGOption {
	var opts []render.SVGOption
	if o.Tooltips != render.TooltipOff {
		opts = append(opts, render.WithTooltips())
	}
	if o.Scale > 0 {
		opts = append(opts, render.WithScale(o.Scale))
	}
	return opts
}
