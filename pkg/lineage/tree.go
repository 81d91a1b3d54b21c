package lineage

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrNilRoot is returned by [Normalize] when the raw record is nil.
	ErrNilRoot = errors.New("etymology record is nil")

	// ErrInvalidRoot is returned by [Normalize] when the root record itself
	// is missing its word or language. An invalid root leaves nothing to
	// draw, unlike invalid descendants, which are merely skipped.
	ErrInvalidRoot = errors.New("root record is invalid")

	// ErrDuplicateNodeID is returned by [Normalize] when two nodes produce
	// the same identifier. IDs encode depth and sibling index, so this
	// cannot happen unless the traversal itself is broken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Node is one word form in the canonical tree. Position and size are
// assigned later by layout strategies; normalization only establishes
// identity, structure, and the tooltip payload.
type Node struct {
	ID       string `json:"id"`
	Word     string `json:"word"`
	Language string `json:"language"`
	Meaning  string `json:"meaning,omitempty"`
	Era      string `json:"era,omitempty"`
	Context  string `json:"context,omitempty"`

	Family       Family   `json:"family"`
	Depth        int      `json:"depth"`
	SiblingIndex int      `json:"siblingIndex"`
	ParentID     string   `json:"parentId,omitempty"`
	ChildIDs     []string `json:"childIds,omitempty"`
}

// Edge is one parent-to-child relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Tree is the normalized ancestry of one word. It is a strict tree: every
// node except the root has exactly one parent, and node order is the
// depth-first pre-order of the walk that built it.
//
// The zero value is not usable - trees come from [Normalize] or [FromJSON].
type Tree struct {
	rootID string
	nodes  map[string]*Node
	order  []string        // DFS pre-order
	depths map[int][]*Node // depth -> nodes, in pre-order
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[t.rootID] }

// Node returns the node with the given ID and true, or nil and false.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in depth-first pre-order. The returned slice is
// freshly allocated but shares node pointers with the tree.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, len(t.order))
	for i, id := range t.order {
		nodes[i] = t.nodes[id]
	}
	return nodes
}

// Edges returns every parent-to-child relation in pre-order.
func (t *Tree) Edges() []Edge {
	var edges []Edge
	for _, id := range t.order {
		for _, child := range t.nodes[id].ChildIDs {
			edges = append(edges, Edge{From: id, To: child})
		}
	}
	return edges
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Children returns the node's child IDs in input order.
// The returned slice should not be modified.
func (t *Tree) Children(id string) []string {
	if n, ok := t.nodes[id]; ok {
		return n.ChildIDs
	}
	return nil
}

// Parent returns the node's parent and true, or nil and false for the root
// or an unknown ID.
func (t *Tree) Parent(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == "" {
		return nil, false
	}
	p, ok := t.nodes[n.ParentID]
	return p, ok
}

// NodesAtDepth returns all nodes at the given depth in pre-order.
// Returns nil if the depth is empty.
func (t *Tree) NodesAtDepth(depth int) []*Node { return t.depths[depth] }

// MaxDepth returns the deepest level in the tree. The root is depth 0,
// so a root-only tree has MaxDepth 0.
func (t *Tree) MaxDepth() int {
	max := 0
	for d := range t.depths {
		if d > max {
			max = d
		}
	}
	return max
}

// Depths returns all occupied depth levels in ascending order.
func (t *Tree) Depths() []int {
	return slices.Sorted(maps.Keys(t.depths))
}

// Leaves returns all nodes without children, in pre-order.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for _, id := range t.order {
		if n := t.nodes[id]; len(n.ChildIDs) == 0 {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// LeafCount returns the number of leaves in the subtree rooted at id.
// A leaf counts itself as 1. Returns 0 for an unknown ID.
func (t *Tree) LeafCount(id string) int {
	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	if len(n.ChildIDs) == 0 {
		return 1
	}
	total := 0
	for _, child := range n.ChildIDs {
		total += t.LeafCount(child)
	}
	return total
}

// SubtreeSize returns the number of nodes in the subtree rooted at id,
// including the node itself. Returns 0 for an unknown ID.
func (t *Tree) SubtreeSize(id string) int {
	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	total := 1
	for _, child := range n.ChildIDs {
		total += t.SubtreeSize(child)
	}
	return total
}

// Shallow reports whether the tree is a bare root with no ancestry.
// Shallow trees render fine but usually mean the generation service had
// nothing to say, so callers warn on them.
func (t *Tree) Shallow() bool { return len(t.nodes) == 1 }

// Walk visits every node in depth-first pre-order. The walk stops early
// if fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	for _, id := range t.order {
		if !fn(t.nodes[id]) {
			return
		}
	}
}
