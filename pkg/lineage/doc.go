// Package lineage provides the canonical word-ancestry tree that layout
// strategies consume.
//
// # Overview
//
// Etymon renders a word's history as a tree: the searched word at the root,
// ancestor forms fanning out by depth. This package turns the raw records
// from generation services (see the etymology package) into that canonical
// form: a strict tree of nodes with stable identifiers, depth and sibling
// indices, and a coarse language-family classification used for coloring.
//
// # Normalization
//
// [Normalize] walks the raw record depth-first in pre-order, children in
// input order. Records missing a word or language are skipped together with
// their entire subtree; the skip is logged through the options callback and
// never aborts the walk. Sibling indices count only surviving siblings, so
// identifiers stay dense:
//
//	tree, err := lineage.Normalize(root, lineage.Options{})
//
// Node identifiers are deterministic: the same input always produces the
// same tree, which makes normalized trees safe to hash and cache.
//
// # Identifiers
//
// Each node's ID is built from its word, language, depth, and sibling index
// (for example "niht-old-english-1-0"). IDs are unique by construction; a
// collision means the walk itself is broken, so [Normalize] fails fast
// rather than patching over it.
//
// # Language Families
//
// [Classify] maps a free-form language label ("Old English", "Vulgar
// Latin") to a coarse [Family] bucket via an embedded table of substring
// patterns, evaluated in a fixed order, falling back to [FamilyOther]. The
// buckets exist for coloring and grouping, not linguistic rigor.
//
// # Concurrency
//
// Tree instances are immutable after Normalize returns and safe for
// concurrent reads. Building happens on a single goroutine.
package lineage
