// Package etymology defines the raw word-history records that generation
// services return.
//
// # Overview
//
// Etymon fetches etymology data from AI generation services that speak the
// OpenAI chat-completion protocol. The service answers with a nested record:
// the searched word at the root and its ancestor forms as children, each
// child being the form the parent derives from.
//
// This package provides the record type and the core abstractions consumed
// by the rest of the pipeline:
//
//   - [Node]: one word form with its language, gloss, and era
//   - [Tracer]: anything that can produce a record tree for a word
//   - [Options]: fetch limits and behavior
//
// # Validity
//
// A record needs a word and a language to mean anything. [Node.Valid]
// reports whether both are present; nodes that fail the check are skipped
// together with their subtree during normalization (see the lineage
// package). Optional fields (meaning, era, context) only feed tooltips and
// never affect validity.
//
// # Fetching
//
// Use a [Tracer] to fetch a record tree:
//
//	root, err := client.Trace(ctx, "night", etymology.Options{MaxDepth: 10})
//
// The oracle package provides the HTTP implementation. Results are cached
// per word and options; pass Refresh to bypass the cache.
package etymology
