// Package io reads and writes the pipeline's intermediate artifacts.
//
// # Overview
//
// The pipeline has two file-shaped waypoints: the normalized lineage
// tree (what trace produces) and the computed layout (what the layout
// stage produces). This package serializes both so the stages can run
// separately:
//
//	etymon trace night -o night.json
//	etymon layout night --tree night.json -o night.layout.json
//	etymon render night --layout night.layout.json
//
// # Formats
//
// Trees are written as the root ID plus nodes in depth-first pre-order,
// the same wire form [lineage.Tree.ToJSON] produces. Layouts are the
// [layout.Result] wire form: placed nodes, edge paths, and mode-specific
// sections (arcs, segments, bands, or DOT source). Files are indented
// so they stay diffable and hand-editable.
//
// Both formats round-trip: a written tree re-imports into an equal tree,
// and a written layout re-imports into an equal layout.
//
// # Errors
//
// A missing file surfaces as ErrCodeFileNotFound and unparseable content
// as ErrCodeEncoding, both carrying the path for context.
package io
