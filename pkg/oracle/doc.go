// Package oracle fetches etymology records from an OpenAI-compatible
// chat-completion service.
//
// # Overview
//
// The [Client] implements [etymology.Tracer]: it asks the model for a
// word's ancestry as strict JSON, decodes the reply into raw
// [etymology.Node] records, and enforces the configured depth and node
// caps. Responses are cached on disk so repeat lookups skip the network
// entirely.
//
// # Failure Taxonomy
//
// Fetch failures map to structured error codes so callers can branch on
// cause while users see one generic message:
//
//   - the model reports no lineage: WORD_NOT_FOUND
//   - HTTP 429: RATE_LIMITED, carrying the Retry-After hint
//   - HTTP 5xx, connection errors: NETWORK_ERROR
//   - deadline hit: TIMEOUT
//   - reply that is not the agreed JSON contract: MALFORMED_RESPONSE
//
// Rate limits, 5xx responses, and transport errors are retried with a
// linear backoff (1s, 2s, 3s by default); everything else fails fast.
//
// # Searches That Supersede Each Other
//
// Interactive callers fire lookups faster than the service answers.
// [Searcher] serializes them: starting a new search cancels the previous
// in-flight request, and a result arriving for an already-superseded
// search is discarded instead of delivered. The word typed last always
// wins, regardless of response order.
package oracle
