// Package pkg provides the core libraries for Etymon etymology visualization.
//
// # Overview
//
// Etymon traces a word's ancestry through a language-model oracle and lays the
// resulting lineage out as a visual tree. The pkg directory is organized into
// five main areas:
//
//  1. [etymology] / [oracle] - Domain types and ancestry tracing
//  2. [lineage] - Canonical tree normalization
//  3. [layout] / [render] / [canvas] - Geometry and drawing
//  4. [pipeline] / [cache] - Orchestration with per-stage caching
//  5. [garden] / [config] / [io] - Persistence, configuration, serialization
//
// # Architecture
//
// The typical data flow through Etymon:
//
//	Word
//	  ↓
//	[oracle] package (fetch raw ancestry from the language model)
//	  ↓
//	[lineage] package (normalize into a canonical tree)
//	  ↓
//	[layout] package (position every node with a strategy)
//	  ↓
//	[render] package (scene construction + export)
//	  ↓
//	SVG/PNG/JPEG/PDF/JSON/DOT output
//
// # Quick Start
//
// Trace a word and render its lineage:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/mhuisman/etymon/pkg/etymology"
//	    "github.com/mhuisman/etymon/pkg/layout"
//	    "github.com/mhuisman/etymon/pkg/lineage"
//	    "github.com/mhuisman/etymon/pkg/oracle"
//	    "github.com/mhuisman/etymon/pkg/render"
//	)
//
//	// 1. Trace ancestry
//	tracer := oracle.New(oracle.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
//	root, _ := tracer.Trace(context.Background(), "night", etymology.Options{MaxDepth: 8})
//
//	// 2. Normalize into a canonical tree
//	tree, _ := lineage.Normalize(root, lineage.Options{})
//
//	// 3. Compute a layout
//	strategy, _ := layout.ForMode("radial")
//	res, _ := strategy.Layout(tree, layout.Viewport{Width: 1200, Height: 800}, layout.Options{})
//
//	// 4. Render to SVG
//	scene := render.BuildScene(res, render.ViewState{})
//	art, _ := render.Export(context.Background(), scene, render.FormatSVG)
//	_ = os.WriteFile(art.Filename, art.Data, 0o644)
//
// # Main Packages
//
// ## Domain
//
// [etymology] - Core domain types: Node (one word form with language, meaning,
// era) and the Tracer interface every ancestry source implements.
//
// [oracle] - OpenAI-backed Tracer. Structured-output chat completions with
// schema validation, retry with backoff, rate-limit handling, and an on-disk
// response cache so repeated traces never pay for the same completion twice.
//
// [lineage] - Normalization from raw oracle output to the canonical Tree:
// deduplication, cycle breaking, depth and node caps, deterministic IDs, and
// a content hash used as the caching identity for downstream stages.
//
// ## Geometry and Drawing
//
// [layout] - Strategy registry and the geometric engines: tree, flowchart,
// fishbone, radial, bundle, force, sunburst, treemap, pack, sankey. Each
// strategy is a pure function of (tree, viewport, options).
//
// [render] - Scene construction and export. A Scene is the serializable
// drawing; sinks produce SVG (native), PNG/JPEG (rasterized), PDF, JSON, and
// Graphviz DOT for the dot mode.
//
// [canvas] - Spatial index over a computed layout for hit testing and
// overlap queries, used by interactive consumers of layout results.
//
// ## Orchestration
//
// [pipeline] - Complete visualization pipeline (trace → layout → render) used
// by CLI and API. Options validation, per-stage content-addressed caching,
// and cache-hit reporting live here.
//
// [cache] - Cache interface with file, memory, Redis, MongoDB, SQLite, and
// null backends, plus the Keyer that derives stage keys and the stage TTLs.
//
// [observability] - Process-global hook registries for pipeline, cache, and
// HTTP events. No-op by default; metrics backends register at startup.
//
// ## Persistence and Plumbing
//
// [garden] - Saved-word collection with file (YAML), memory, Redis, and
// SQLite stores behind one Store interface.
//
// [config] - TOML configuration with XDG discovery and layered defaults.
//
// [io] - Tree and layout JSON import/export shared by CLI flags and API
// handlers.
//
// [httputil] - HTTP client wrapper with retry, backoff, and response caching
// used by the oracle.
//
// [errors] - Coded errors with user-facing messages shared across CLI exit
// paths and API status mapping.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Common Workflows
//
// Re-layout a saved tree without re-tracing:
//
//	tree, _ := io.ImportTree("night.json")
//	strategy, _ := layout.ForMode("sunburst")
//	res, _ := strategy.Layout(tree, layout.Viewport{Width: 1600, Height: 1600}, layout.Options{Seed: 42})
//
// Run the full pipeline with caching:
//
//	store, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(store, nil, tracer, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Word: "night", Mode: "tree"})
//
// Export the dot mode through Graphviz:
//
//	res, _ := pipeline.GenerateLayout(tree, pipeline.Options{Mode: "dot"})
//	art, _ := render.ExportDOT(ctx, res, "night", render.FormatSVG)
//
// Keep words in the garden:
//
//	store, _ := garden.NewFileStore(path)
//	_ = store.Save(ctx, garden.NewEntry("night", "English", "tree", "from Old English niht"))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/layout/...      # Specific package
//	go test -run Example          # Examples only
//
// [etymology]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/etymology
// [oracle]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/oracle
// [lineage]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/lineage
// [layout]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/layout
// [render]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/render
// [canvas]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/canvas
// [pipeline]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/cache
// [observability]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/observability
// [garden]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/garden
// [config]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/config
// [io]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/io
// [httputil]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/mhuisman/etymon/pkg/buildinfo
package pkg
