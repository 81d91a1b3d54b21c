package layout

import (
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/lineage"
)

// genRecord grows a random ancestry, bounded (depth <= 3, fan-out <= 2)
// so every strategy including the force simulation stays quick. Words get
// a unique suffix so generated trees never collide on node identity.
func genRecord(t *rapid.T) *etymology.Node {
	words := rapid.StringMatching(`[a-z]{2,8}`)
	langs := rapid.SampledFrom([]string{
		"English", "Old English", "Old Norse", "Latin",
		"Proto-Germanic", "Proto-Indo-European",
	})

	serial := 0
	var grow func(depth int, label string) *etymology.Node
	grow = func(depth int, label string) *etymology.Node {
		serial++
		n := &etymology.Node{
			Word:     fmt.Sprintf("%s%d", words.Draw(t, label+"-word"), serial),
			Language: langs.Draw(t, label+"-lang"),
		}
		if depth >= 3 {
			return n
		}
		fanout := rapid.IntRange(0, 2).Draw(t, label+"-fanout")
		for i := 0; i < fanout; i++ {
			n.Children = append(n.Children, grow(depth+1, fmt.Sprintf("%s-%d", label, i)))
		}
		return n
	}
	return grow(0, "root")
}

func TestStrategyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree, err := lineage.Normalize(genRecord(t), lineage.Options{})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		vp := Viewport{
			Width:  float64(rapid.IntRange(100, 1600).Draw(t, "width")),
			Height: float64(rapid.IntRange(100, 1200).Draw(t, "height")),
		}
		opts := Options{Iterations: 60}

		for _, mode := range Modes() {
			s, _ := ForMode(mode)
			res, err := s.Layout(tree, vp, opts)
			if err != nil {
				t.Fatalf("%s: Layout error: %v", mode, err)
			}

			if len(res.Nodes) != tree.NodeCount() {
				t.Fatalf("%s: placed %d of %d nodes", mode, len(res.Nodes), tree.NodeCount())
			}
			seen := map[string]bool{}
			for _, n := range res.Nodes {
				if seen[n.ID] {
					t.Fatalf("%s: node %s placed twice", mode, n.ID)
				}
				seen[n.ID] = true
				if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
					t.Fatalf("%s: %s at non-finite (%v, %v)", mode, n.ID, n.X, n.Y)
				}
				if !res.Bounds.Contains(Point{X: n.X, Y: n.Y}) {
					t.Fatalf("%s: %s center (%.1f, %.1f) outside bounds %+v", mode, n.ID, n.X, n.Y, res.Bounds)
				}
			}
			for _, e := range res.Edges {
				if !seen[e.From] || !seen[e.To] {
					t.Fatalf("%s: edge %s->%s references unplaced node", mode, e.From, e.To)
				}
			}

			// Same inputs, same bytes.
			again, err := s.Layout(tree, vp, opts)
			if err != nil {
				t.Fatalf("%s: second Layout error: %v", mode, err)
			}
			a, _ := res.ToJSON()
			b, _ := again.ToJSON()
			if string(a) != string(b) {
				t.Fatalf("%s: layout not deterministic", mode)
			}
		}
	})
}
