// Package httputil provides HTTP utilities for the generation-service client.
//
// # Overview
//
// This package provides infrastructure used by the oracle client and other
// HTTP callers:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with increasing backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/etymon/)
// with configurable TTL. This avoids re-asking the generation service for
// lineages it has already produced.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var tree etymology.Node
//	ok, err := cache.Get("trace:night", &tree)  // Check cache
//	if !ok {
//	    tree = fetchFromService()
//	    cache.Set("trace:night", tree)          // Store for later
//	}
//
// Cache keys should be namespaced by concern to avoid collisions.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The wait between attempts grows linearly (base, 2*base, 3*base) so a
// rate-limited caller backs off without overshooting the service's window.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/etymon/
//   - Default TTL: 24 hours
//   - Retry budget: 3 retries after the initial attempt
//   - Base backoff: 1 second
//
// The cache can be cleared via `etymon cache clear` or by deleting
// the cache directory.
package httputil
