package layout

import "github.com/mhuisman/etymon/pkg/lineage"

// Weighting selects the node weight metric used by the space-partition
// strategies (sunburst, treemap, pack).
type Weighting string

const (
	// WeightSubtree weighs a node by its descendant count plus one,
	// biasing area toward bushier subtrees. This is the default.
	WeightSubtree Weighting = "subtree"
	// WeightUniform weighs every leaf 1; internal nodes weigh the sum of
	// their children.
	WeightUniform Weighting = "uniform"
)

// Default layout knobs. Strategies read these through
// [Options.WithDefaults], never directly.
const (
	DefaultNodeWidth      = 120.0
	DefaultNodeHeight     = 44.0
	DefaultLevelSpacing   = 90.0
	DefaultSiblingSpacing = 24.0
	DefaultMargin         = 40.0
	DefaultBundleTension  = 0.85
	DefaultPadding        = 4.0
	DefaultIterations     = 300
	DefaultSeed           = uint64(42)
)

// Options configures layout computation. The zero value means "all
// defaults"; strategies call WithDefaults before use.
type Options struct {
	NodeWidth      float64   // box width for box-shaped modes (default: 120)
	NodeHeight     float64   // box height for box-shaped modes (default: 44)
	LevelSpacing   float64   // gap between depth tiers (default: 90)
	SiblingSpacing float64   // gap between adjacent siblings (default: 24)
	Margin         float64   // viewport inset (default: 40)
	Weighting      Weighting // partition weight metric (default: subtree)
	BundleTension  float64   // edge bundling pull toward the tree channel, 0..1 (default: 0.85)
	Padding        float64   // partition padding between siblings and tiers (default: 4)
	Seed           uint64    // force determinism seed (default: 42)
	Iterations     int       // force tick budget (default: 300)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = DefaultNodeWidth
	}
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = DefaultNodeHeight
	}
	if opts.LevelSpacing <= 0 {
		opts.LevelSpacing = DefaultLevelSpacing
	}
	if opts.SiblingSpacing <= 0 {
		opts.SiblingSpacing = DefaultSiblingSpacing
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Weighting == "" {
		opts.Weighting = WeightSubtree
	}
	if opts.BundleTension <= 0 || opts.BundleTension > 1 {
		opts.BundleTension = DefaultBundleTension
	}
	if opts.Padding <= 0 {
		opts.Padding = DefaultPadding
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	return opts
}

// weight returns the node's weight under the configured metric.
func (o Options) weight(tree *lineage.Tree, id string) float64 {
	switch o.Weighting {
	case WeightUniform:
		return float64(tree.LeafCount(id))
	default:
		return float64(tree.SubtreeSize(id))
	}
}
