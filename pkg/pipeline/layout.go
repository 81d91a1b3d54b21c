package pipeline

import (
	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/render"
)

// GenerateLayout positions the tree under the requested mode. This is the
// unified entry point for producing serializable layout data.
//
// Geometric modes dispatch through the strategy registry; the dot mode
// wraps Graphviz DOT source in the same Result shape so it flows through
// identical caching and export paths.
func GenerateLayout(tree *lineage.Tree, opts Options) (*layout.Result, error) {
	vp := layout.Viewport{Width: opts.Width, Height: opts.Height}

	if opts.IsDot() {
		return render.DOTResult(tree, vp, opts.dotOptions())
	}

	strategy, err := layout.ForMode(opts.Mode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMode, err, "select layout strategy")
	}
	return strategy.Layout(tree, vp, opts.layoutOptions())
}
