// Package canvas coordinates one rendered etymology tree.
//
// # Overview
//
// A [Canvas] ties together the pieces the layout and render packages
// keep separate: the normalized tree snapshot, the active strategy,
// the measured viewport, the latest geometry, and the view state the
// user manipulates (pan/zoom, hover, search highlights, theme).
//
// The update discipline comes from how browsers hand out sizes:
// measurements arrive in bursts and often repeat, so [Canvas.Resize]
// drops no-op and degenerate sizes and debounces the rest, laying out
// only the final size. Node identities never change across resizes or
// mode switches; the same tree is handed to the strategy every time.
//
// # Interaction
//
// [Canvas.Hover] maps pointer coordinates through the inverse pan/zoom
// transform and resolves at most one node via an R-tree over the
// placed boxes, refined by exact shape tests. [Canvas.ZoomAt] anchors
// scaling at the pointer and clamps to [MinZoom, MaxZoom].
// [Canvas.Search] highlights case-insensitive substring matches.
//
// # Export
//
// [Canvas.Surface] returns the exportable [render.Scene] for the
// current state, or nil when nothing has been rendered yet. Callers
// hand it straight to [render.Export].
package canvas
