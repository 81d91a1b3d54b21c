package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuisman/etymon/pkg/cache"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, tracer, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Tracer etymology.Tracer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and tracer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil tracer is allowed for layout- and render-only use; the trace
// stage fails if one is needed.
func NewRunner(c cache.Cache, keyer cache.Keyer, tracer etymology.Tracer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Tracer: tracer,
		Logger: logger,
	}
}

// Execute runs the complete trace -> layout -> render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Trace
	traceStart := time.Now()
	tree, traceHit, err := r.TraceWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	result.Tree = tree
	result.Stats.TraceTime = time.Since(traceStart)
	result.Stats.NodeCount = tree.NodeCount()
	result.Stats.EdgeCount = len(tree.Edges())
	result.CacheInfo.TraceHit = traceHit

	// Compute tree hash for cache keys and API responses
	if treeData, err := tree.ToJSON(); err == nil {
		result.TreeHash = cache.Hash(treeData)
	}

	r.Logger.Info("traced lineage",
		"word", opts.Word,
		"nodes", tree.NodeCount(),
		"depth", tree.MaxDepth(),
		"duration", result.Stats.TraceTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"mode", opts.Mode,
		"placed", len(res.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TraceWithCacheInfo fetches and normalizes a lineage with caching and
// returns cache hit info. Refresh bypasses the read but still stores the
// fresh result, matching the oracle's own response cache.
func (r *Runner) TraceWithCacheInfo(ctx context.Context, opts Options) (*lineage.Tree, bool, error) {
	if err := opts.ValidateForTrace(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The key is case-folded so "Night" and "night" share a trace.
	cacheKey := r.Keyer.TraceKey(strings.ToLower(opts.Word), opts.TraceKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if tree, err := lineage.FromJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "trace")
				return tree, true, nil
			}
			// A cached tree that no longer decodes falls through to refetch.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "trace")

	start := time.Now()
	observability.Pipeline().OnTraceStart(ctx, opts.Word)
	tree, err := Trace(ctx, r.Tracer, opts)
	nodes := 0
	if tree != nil {
		nodes = tree.NodeCount()
	}
	observability.Pipeline().OnTraceComplete(ctx, opts.Word, nodes, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := tree.ToJSON(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTrace); err == nil {
			observability.Cache().OnCacheSet(ctx, "trace", len(data))
		}
	}

	return tree, false, nil
}

// Trace is a convenience wrapper that calls TraceWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Trace(ctx context.Context, opts Options) (*lineage.Tree, error) {
	tree, _, err := r.TraceWithCacheInfo(ctx, opts)
	return tree, err
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, tree *lineage.Tree, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	treeData, _ := tree.ToJSON()
	treeHash := cache.Hash(treeData)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := layout.ResultFromJSON(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Mode, tree.NodeCount())
	res, err := GenerateLayout(tree, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Mode, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := res.ToJSON(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// GenerateLayout is a convenience wrapper that calls
// GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, tree *lineage.Tree, opts Options) (*layout.Result, error) {
	res, _, err := r.GenerateLayoutWithCacheInfo(ctx, tree, opts)
	return res, err
}

// RenderWithCacheInfo encodes artifacts with caching and returns cache
// hit info. The hit flag is true only when every requested format was
// served from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := res.ToJSON()
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
