package layout_test

import (
	"fmt"

	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
)

func ExampleForMode() {
	record := &etymology.Node{
		Word:     "night",
		Language: "English",
		Children: []*etymology.Node{
			{
				Word:     "niht",
				Language: "Old English",
				Children: []*etymology.Node{
					{Word: "*nahts", Language: "Proto-Germanic"},
				},
			},
		},
	}
	tree, _ := lineage.Normalize(record, lineage.Options{})

	strategy, _ := layout.ForMode(layout.ModeTree)
	res, _ := strategy.Layout(tree, layout.Viewport{Width: 800, Height: 600}, layout.Options{})

	for _, n := range res.Nodes {
		fmt.Printf("%s (%.0f, %.0f)\n", n.Word, n.X, n.Y)
	}
	// Output:
	// night (190, 300)
	// niht (400, 300)
	// *nahts (610, 300)
}

func ExampleModes() {
	fmt.Println(layout.Modes())
	// Output:
	// [bundle fishbone flowchart force pack radial sankey sunburst tree treemap]
}
