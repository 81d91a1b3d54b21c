// Package render turns layout results into export artifacts.
//
// # Overview
//
// The package sits between geometry and bytes. A [Scene] is the
// serializable middle form: flat vector shapes (rects, circles, annulus
// sectors, paths, polylines, bands, text) built from a layout Result
// plus the view state the geometry does not know about (theme, hover,
// highlights, tooltip style). Sinks encode a Scene without ever seeing
// the tree or the strategy that produced it.
//
// # Sinks
//
//   - [RenderSVG]: native interactive SVG (hover highlighting and
//     optional tooltip panels, no external tools)
//   - [RenderPNG], [RenderJPEG]: native raster output
//   - [RenderPDF]: SVG piped through the external rsvg-convert tool
//   - [Scene.ToJSON]: the scene itself, for callers that draw elsewhere
//
// # Dot Mode
//
// The dot mode bypasses scenes entirely: [ToDOT] emits Graphviz source
// from a lineage tree and [RenderDOT] rasterizes it through Graphviz.
//
// # Export
//
// [Export] dispatches a scene to the sink for a [Format] and names the
// artifact; [ExportAll] fans out over several formats concurrently.
// Failures are coded: an unknown format or nil scene is
// UNSUPPORTED_SURFACE, a missing converter is CAPTURE_RESTRICTED, and a
// converter or encoder error is ENCODING_ERROR.
//
//	scene := render.BuildScene(result, render.ViewState{Dark: true})
//	art, err := render.Export(ctx, scene, render.FormatSVG)
//	// art.Filename == "etymon_night_tree.svg"
package render
