package lineage

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mhuisman/etymon/pkg/etymology"
)

// nightRecord builds the canonical three-generation fixture:
// night -> niht -> *nahts.
func nightRecord() *etymology.Node {
	return &etymology.Node{
		Word:     "night",
		Language: "English",
		Meaning:  "the dark part of the day",
		Children: []*etymology.Node{
			{
				Word:     "niht",
				Language: "Old English",
				Era:      "before 900",
				Children: []*etymology.Node{
					{Word: "*nahts", Language: "Proto-Germanic"},
				},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	tree, err := Normalize(nightRecord(), Options{})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if tree.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", tree.NodeCount())
	}

	// Pre-order with deterministic IDs
	wantIDs := []string{
		"night-english-0-0",
		"niht-old-english-1-0",
		"nahts-proto-germanic-2-0",
	}
	nodes := tree.Nodes()
	for i, want := range wantIDs {
		if nodes[i].ID != want {
			t.Errorf("node[%d].ID = %s, want %s", i, nodes[i].ID, want)
		}
	}

	// Structure
	root := tree.Root()
	if root.ID != "night-english-0-0" {
		t.Errorf("Root ID = %s", root.ID)
	}
	if root.ParentID != "" {
		t.Errorf("root should have no parent, got %q", root.ParentID)
	}
	if len(root.ChildIDs) != 1 || root.ChildIDs[0] != "niht-old-english-1-0" {
		t.Errorf("root.ChildIDs = %v", root.ChildIDs)
	}

	// Depths and families
	niht, _ := tree.Node("niht-old-english-1-0")
	if niht.Depth != 1 || niht.Family != "Germanic" {
		t.Errorf("niht: depth=%d family=%s", niht.Depth, niht.Family)
	}
	nahts, _ := tree.Node("nahts-proto-germanic-2-0")
	if nahts.Depth != 2 || nahts.ParentID != "niht-old-english-1-0" {
		t.Errorf("nahts: depth=%d parent=%s", nahts.Depth, nahts.ParentID)
	}

	// Tooltip payload carried through
	if root.Meaning != "the dark part of the day" {
		t.Errorf("root.Meaning = %q", root.Meaning)
	}
	if niht.Era != "before 900" {
		t.Errorf("niht.Era = %q", niht.Era)
	}
}

func TestNormalizeSkipsInvalidSubtrees(t *testing.T) {
	// The invalid middle child must vanish with its valid descendant,
	// and the third child must take sibling index 1, not 2.
	root := &etymology.Node{
		Word:     "water",
		Language: "English",
		Children: []*etymology.Node{
			{Word: "wæter", Language: "Old English"},
			{
				Word: "", Language: "Proto-Germanic", // invalid
				Children: []*etymology.Node{
					{Word: "*watar", Language: "Proto-Germanic"},
				},
			},
			{Word: "*wódr̥", Language: "Proto-Indo-European"},
		},
	}

	var logged []string
	tree, err := Normalize(root, Options{
		Logger: func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if tree.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3 (invalid subtree dropped)", tree.NodeCount())
	}

	// Surviving siblings are reindexed densely
	if _, ok := tree.Node("wæter-old-english-1-0"); !ok {
		t.Error("first child should keep sibling index 0")
	}
	if _, ok := tree.Node("wódr-proto-indo-european-1-1"); !ok {
		ids := make([]string, 0, 3)
		tree.Walk(func(n *Node) bool { ids = append(ids, n.ID); return true })
		t.Errorf("third child should get sibling index 1; have %v", ids)
	}

	// The descendant of the invalid node must not survive
	tree.Walk(func(n *Node) bool {
		if n.Word == "*watar" {
			t.Error("descendant of invalid node should be dropped")
		}
		return true
	})

	if len(logged) != 1 || !strings.Contains(logged[0], "skipping invalid record") {
		t.Errorf("expected one skip log, got %v", logged)
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(nil, Options{}); !errors.Is(err, ErrNilRoot) {
		t.Errorf("nil root: got %v, want ErrNilRoot", err)
	}

	invalid := &etymology.Node{Word: "", Language: "English"}
	if _, err := Normalize(invalid, Options{}); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("invalid root: got %v, want ErrInvalidRoot", err)
	}
}

func TestNormalizeShallowTreeWarns(t *testing.T) {
	var logged []string
	tree, err := Normalize(&etymology.Node{Word: "zeitgeist", Language: "German"}, Options{
		Logger: func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		t.Fatalf("shallow tree should not error: %v", err)
	}
	if !tree.Shallow() {
		t.Error("Shallow() should be true for a root-only tree")
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "shallow") {
		t.Errorf("expected shallow warning, got %v", logged)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	t1, err := Normalize(nightRecord(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	t2, err := Normalize(nightRecord(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	j1, err := t1.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	j2, err := t2.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(j1) != string(j2) {
		t.Error("identical input should produce byte-identical trees")
	}
}

func TestNodeID(t *testing.T) {
	tests := []struct {
		word, language string
		depth, sibling int
		want           string
	}{
		{"night", "English", 0, 0, "night-english-0-0"},
		{"*nahts", "Proto-Germanic", 2, 0, "nahts-proto-germanic-2-0"},
		{"Old Norse nátt", "Old Norse", 1, 3, "old-norse-nátt-old-norse-1-3"},
		{"  padded  ", "English", 0, 1, "padded-english-0-1"},
		{"***", "English", 0, 0, "x-english-0-0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NodeID(tt.word, tt.language, tt.depth, tt.sibling); got != tt.want {
				t.Errorf("NodeID(%q, %q, %d, %d) = %s, want %s",
					tt.word, tt.language, tt.depth, tt.sibling, got, tt.want)
			}
		})
	}
}
