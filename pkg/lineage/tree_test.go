package lineage

import (
	"testing"

	"github.com/mhuisman/etymon/pkg/etymology"
)

// branchingRecord builds a fixture with fan-out:
//
//	sky
//	├── scī (Old English)
//	│   └── *skiwô (Proto-Germanic)
//	└── ský (Old Norse)
func branchingRecord() *etymology.Node {
	return &etymology.Node{
		Word:     "sky",
		Language: "English",
		Children: []*etymology.Node{
			{
				Word:     "scī",
				Language: "Old English",
				Children: []*etymology.Node{
					{Word: "*skiwô", Language: "Proto-Germanic"},
				},
			},
			{Word: "ský", Language: "Old Norse"},
		},
	}
}

func mustNormalize(t *testing.T, rec *etymology.Node) *Tree {
	t.Helper()
	tree, err := Normalize(rec, Options{})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	return tree
}

func TestTreeQueries(t *testing.T) {
	tree := mustNormalize(t, branchingRecord())
	rootID := tree.Root().ID

	// Edges follow pre-order
	edges := tree.Edges()
	if len(edges) != 3 {
		t.Fatalf("EdgeCount = %d, want 3", len(edges))
	}
	if edges[0].From != rootID {
		t.Errorf("first edge should leave the root, got %+v", edges[0])
	}

	// Parent lookups
	if _, ok := tree.Parent(rootID); ok {
		t.Error("root should have no parent")
	}
	child := tree.NodesAtDepth(1)[0]
	parent, ok := tree.Parent(child.ID)
	if !ok || parent.ID != rootID {
		t.Errorf("Parent(%s) = %v, %v", child.ID, parent, ok)
	}

	// Depth queries
	if got := tree.MaxDepth(); got != 2 {
		t.Errorf("MaxDepth = %d, want 2", got)
	}
	if got := len(tree.NodesAtDepth(1)); got != 2 {
		t.Errorf("depth 1 has %d nodes, want 2", got)
	}
	if depths := tree.Depths(); len(depths) != 3 || depths[0] != 0 || depths[2] != 2 {
		t.Errorf("Depths = %v", depths)
	}

	// Leaves
	leaves := tree.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("LeafCount = %d, want 2", len(leaves))
	}

	// Subtree metrics
	if got := tree.LeafCount(rootID); got != 2 {
		t.Errorf("LeafCount(root) = %d, want 2", got)
	}
	if got := tree.SubtreeSize(rootID); got != 4 {
		t.Errorf("SubtreeSize(root) = %d, want 4", got)
	}
	if got := tree.LeafCount("missing"); got != 0 {
		t.Errorf("LeafCount(missing) = %d, want 0", got)
	}
}

func TestTreeWalkStopsEarly(t *testing.T) {
	tree := mustNormalize(t, branchingRecord())

	visited := 0
	tree.Walk(func(n *Node) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("Walk visited %d nodes, want 2", visited)
	}
}

func TestTreeJSONRoundTrip(t *testing.T) {
	tree := mustNormalize(t, branchingRecord())

	data, err := tree.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}

	restored, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}

	if restored.NodeCount() != tree.NodeCount() {
		t.Errorf("restored NodeCount = %d, want %d", restored.NodeCount(), tree.NodeCount())
	}
	if restored.Root().ID != tree.Root().ID {
		t.Errorf("restored root = %s, want %s", restored.Root().ID, tree.Root().ID)
	}
	if restored.MaxDepth() != tree.MaxDepth() {
		t.Errorf("restored MaxDepth = %d, want %d", restored.MaxDepth(), tree.MaxDepth())
	}

	// Order survives the round trip
	orig, rest := tree.Nodes(), restored.Nodes()
	for i := range orig {
		if orig[i].ID != rest[i].ID {
			t.Errorf("node order diverged at %d: %s vs %s", i, orig[i].ID, rest[i].ID)
		}
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Error("malformed JSON should error")
	}
	if _, err := FromJSON([]byte(`{"root":"a","nodes":[]}`)); err == nil {
		t.Error("empty node list should error")
	}
	if _, err := FromJSON([]byte(`{"root":"missing","nodes":[{"id":"a","word":"a","language":"x"}]}`)); err == nil {
		t.Error("root absent from node list should error")
	}
}
