// Package cache provides content-addressed caching for pipeline stages.
//
// Each stage of the trace -> layout -> artifact pipeline caches its output
// under a key derived from its inputs, so repeated runs skip work that has
// already been done. Keys are produced by a Keyer so callers can scope or
// replace the keying scheme without touching the backends.
//
// Backends: FileCache (default, ~/.cache under the app dir), RedisCache,
// MongoCache, and NullCache (disabled caching).
package cache

import (
	"context"
	"time"
)

// ===== TTLs =====

// Default time-to-live per pipeline stage. Etymologies change rarely, so
// trace results live longest; layouts and artifacts are cheap to rebuild
// and expire sooner.
const (
	TTLTrace    = 7 * 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// ===== Cache interface =====

// Cache stores raw bytes under string keys with per-entry expiry.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss
// or expired entry. Errors are reserved for backend failures; callers
// treat a miss and an error the same way (recompute) but may log errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ===== Keyers =====

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// HTTPKey keys a raw HTTP response by namespace and request key.
	HTTPKey(namespace, key string) string
	// TraceKey keys a normalized etymology tree by word and trace options.
	TraceKey(word string, opts TraceKeyOpts) string
	// LayoutKey keys a computed layout by tree hash and layout options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// TraceKeyOpts captures everything that changes what a trace fetch returns.
type TraceKeyOpts struct {
	Model    string // generation model identifier
	MaxDepth int    // 0 means unbounded
	MaxNodes int    // 0 means unbounded
}

// LayoutKeyOpts captures everything that changes node placement.
type LayoutKeyOpts struct {
	Mode           string // layout mode name (tree, radial, force, ...)
	Width          float64
	Height         float64
	NodeWidth      float64
	NodeHeight     float64
	LevelSpacing   float64
	SiblingSpacing float64
	Margin         float64
	Weighting      string // subtree or uniform
	Seed           uint64 // force mode determinism
	Iterations     int    // force mode tick budget

	// Dot-mode knobs. The DOT source bakes in label detail and palette,
	// so they key the layout; geometric modes leave both zero and keep
	// their layouts valid across palette toggles.
	Detailed bool
	Dark     bool
}

// ArtifactKeyOpts captures everything that changes rendered output.
type ArtifactKeyOpts struct {
	Format string // svg, png, jpeg, pdf, dot, json
	Style  string
	Dark   bool
	Scale  float64
}

// DefaultKeyer hashes stage inputs into stable keys. HTTP keys stay
// human-readable for cache inspection; stage keys are hashed because the
// options structs would otherwise produce unwieldy key strings.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keying scheme.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (k *DefaultKeyer) TraceKey(word string, opts TraceKeyOpts) string {
	return hashKey("trace", word, opts)
}

func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
