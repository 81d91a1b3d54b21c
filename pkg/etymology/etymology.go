package etymology

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultMaxDepth = 25             // Default maximum ancestry depth
	DefaultMaxNodes = 500            // Default maximum word forms to accept
	DefaultCacheTTL = 24 * time.Hour // Default HTTP cache duration
)

// Options configures etymology fetching behavior.
type Options struct {
	MaxDepth int                  // Maximum ancestry depth to request (default: 25)
	MaxNodes int                  // Maximum word forms to accept (default: 500)
	CacheTTL time.Duration        // HTTP cache duration (default: 24h)
	Refresh  bool                 // Bypass cache for fresh data
	Model    string               // Generation model override (optional)
	Logger   func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Tracer produces an etymology record tree for a word.
type Tracer interface {
	// Trace fetches the word's ancestry. The returned root carries the
	// searched word; children are the forms it derives from.
	Trace(ctx context.Context, word string, opts Options) (*Node, error)
	// Name returns the tracer's identifier (e.g., "openai").
	Name() string
}

// Node is one word form in an etymology record. Children are the earlier
// forms this one derives from, in the order the service reported them.
type Node struct {
	Word     string  `json:"word"`
	Language string  `json:"language"`
	Meaning  string  `json:"meaning,omitempty"`
	Era      string  `json:"era,omitempty"`
	Context  string  `json:"context,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Valid reports whether the node carries the required identity fields.
// Reconstructed forms like "*nahts" count as words.
func (n *Node) Valid() bool {
	if n == nil {
		return false
	}
	return strings.TrimSpace(n.Word) != "" && strings.TrimSpace(n.Language) != ""
}

// Count returns the number of nodes in the subtree rooted at n,
// including n itself and invalid nodes.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Depth returns the height of the subtree rooted at n. A leaf has depth 0.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	max := 0
	for _, c := range n.Children {
		if d := c.Depth() + 1; d > max {
			max = d
		}
	}
	return max
}
