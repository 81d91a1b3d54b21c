// Package layout turns normalized ancestry trees into positioned geometry.
//
// # Overview
//
// A layout [Strategy] consumes a [lineage.Tree] plus a [Viewport] and
// produces a [Result]: positioned nodes (center coordinates and sizes) and
// edge geometries, ready for rendering or export. Strategies are
// interchangeable; the mode string selects one:
//
//	strat, _ := layout.ForMode(layout.ModeRadial)
//	res, _ := strat.Layout(tree, layout.Viewport{Width: 800, Height: 600}, layout.Options{})
//
// # Modes
//
//   - [ModeTree]: tiered Cartesian tree, depth runs left to right
//   - [ModeFlowchart]: strict depth columns with orthogonal edges
//   - [ModeFishbone]: horizontal spine with alternating angled ribs
//   - [ModeRadial]: polar placement, angle proportional to leaf count
//   - [ModeBundle]: radial placement with bundled edge curves
//   - [ModeForce]: force-directed relaxation (see [Simulation])
//   - [ModeSunburst]: recursive angular partition, one ring per depth
//   - [ModeTreemap]: recursive rectangle partition along the longer side
//   - [ModePack]: nested circle packing
//   - [ModeSankey]: depth columns with flow bands, crossing-minimized
//
// A separate dot mode renders through Graphviz instead of a geometric
// strategy; it shares the [Result] serialization (DOT and Engine fields)
// but lives in the render package.
//
// # Determinism
//
// Every strategy is a pure function of its inputs: identical tree,
// viewport, and options produce byte-identical marshaled results. The
// force strategy folds its randomness into a seeded generator, so
// determinism holds per seed. This property is what makes layout results
// safe to cache by content hash.
//
// # Edge Cases
//
// A single-node tree is valid in every mode and renders centered; every
// divisor of the form count-1 is guarded. A zero-size viewport yields an
// empty Result (no nodes, no error, no NaN). Depth and node counts are
// unbounded.
package layout
