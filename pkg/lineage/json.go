package lineage

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// treeJSON is the wire form of a Tree: the root ID plus nodes in
// depth-first pre-order. Structure lives in each node's ParentID/ChildIDs,
// so no separate edge list is stored.
type treeJSON struct {
	Root  string  `json:"root"`
	Nodes []*Node `json:"nodes"`
}

// ToJSON serializes the tree. Output is deterministic for identical trees,
// which makes it safe to hash for cache keys.
func (t *Tree) ToJSON() ([]byte, error) {
	return json.Marshal(treeJSON{Root: t.rootID, Nodes: t.Nodes()})
}

// FromJSON rebuilds a tree serialized with [Tree.ToJSON]. The node list
// must be in pre-order with the root first; indices are rebuilt, contents
// are trusted.
func FromJSON(data []byte) (*Tree, error) {
	var wire treeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	if len(wire.Nodes) == 0 {
		return nil, fmt.Errorf("decoding tree: no nodes")
	}

	t := &Tree{
		rootID: wire.Root,
		nodes:  make(map[string]*Node, len(wire.Nodes)),
		order:  make([]string, 0, len(wire.Nodes)),
		depths: make(map[int][]*Node),
	}
	for _, n := range wire.Nodes {
		if _, exists := t.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		t.nodes[n.ID] = n
		t.order = append(t.order, n.ID)
		t.depths[n.Depth] = append(t.depths[n.Depth], n)
	}
	if _, ok := t.nodes[t.rootID]; !ok {
		return nil, fmt.Errorf("decoding tree: root %q not in node list", t.rootID)
	}
	return t, nil
}
