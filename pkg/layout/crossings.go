package layout

import (
	"slices"

	"github.com/mhuisman/etymon/pkg/lineage"
)

// countCrossings returns the total number of edge crossings for the given
// column orderings. It sums the crossings between each pair of adjacent
// depth columns. Used to score candidate orderings during the sankey
// barycenter sweep.
func countCrossings(tree *lineage.Tree, columns [][]string) int {
	crossings := 0
	for d := 0; d < len(columns)-1; d++ {
		crossings += countColumnCrossings(tree, columns[d], columns[d+1])
	}
	return crossings
}

// countColumnCrossings counts edge crossings between two adjacent columns
// using a Fenwick tree for O(E log V) performance, E being the edges
// between the columns and V the nodes in the lower column.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion in the sequence of target positions once edges
// are sorted by source position. Returns 0 if either column is empty.
func countColumnCrossings(tree *lineage.Tree, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[string]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range tree.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position.
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions using a Fenwick tree.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Query: edges seen so far with target <= e.lower.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		// Crossings = edges seen so far with target > e.lower.
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
