package etymology

import (
	"testing"
	"time"
)

func TestNodeValid(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{
			name: "complete node",
			node: &Node{Word: "night", Language: "English", Meaning: "the dark part of the day"},
			want: true,
		},
		{
			name: "reconstructed form",
			node: &Node{Word: "*nahts", Language: "Proto-Germanic"},
			want: true,
		},
		{
			name: "missing word",
			node: &Node{Language: "Old English"},
			want: false,
		},
		{
			name: "missing language",
			node: &Node{Word: "niht"},
			want: false,
		},
		{
			name: "whitespace only",
			node: &Node{Word: "  ", Language: "English"},
			want: false,
		},
		{
			name: "nil node",
			node: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeCountAndDepth(t *testing.T) {
	root := &Node{
		Word:     "night",
		Language: "English",
		Children: []*Node{
			{
				Word:     "niht",
				Language: "Old English",
				Children: []*Node{
					{Word: "*nahts", Language: "Proto-Germanic"},
				},
			},
		},
	}

	if got := root.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
	if got := root.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}

	leaf := &Node{Word: "nox", Language: "Latin"}
	if got := leaf.Count(); got != 1 {
		t.Errorf("leaf Count() = %d, want 1", got)
	}
	if got := leaf.Depth(); got != 0 {
		t.Errorf("leaf Depth() = %d, want 0", got)
	}

	var nilNode *Node
	if got := nilNode.Count(); got != 0 {
		t.Errorf("nil Count() = %d, want 0", got)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()

	if opts.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", opts.MaxDepth, DefaultMaxDepth)
	}
	if opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes = %d, want %d", opts.MaxNodes, DefaultMaxNodes)
	}
	if opts.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", opts.CacheTTL, DefaultCacheTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a no-op, not nil")
	}

	// Explicit values survive
	custom := Options{MaxDepth: 5, MaxNodes: 50, CacheTTL: time.Hour}.WithDefaults()
	if custom.MaxDepth != 5 || custom.MaxNodes != 50 || custom.CacheTTL != time.Hour {
		t.Errorf("WithDefaults overwrote explicit values: %+v", custom)
	}
}
