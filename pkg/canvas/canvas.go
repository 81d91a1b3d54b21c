package canvas

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/layout"
	"github.com/mhuisman/etymon/pkg/lineage"
	"github.com/mhuisman/etymon/pkg/render"
)

// Options configures a Canvas.
type Options struct {
	// Mode is the initial layout strategy. Defaults to the tiered tree.
	Mode string

	// Layout is passed through to the strategy on every run.
	Layout layout.Options

	// Dark selects the night theme for surfaces.
	Dark bool

	// TooltipStyle is full, compact, or off. Defaults to full.
	TooltipStyle string

	// ResizeDelay is the debounce window for resize bursts. Zero picks
	// the default; a negative delay applies resizes synchronously,
	// which tests rely on.
	ResizeDelay time.Duration

	// OnRelayout is called with the fresh result after every layout
	// run, outside the canvas lock.
	OnRelayout func(*layout.Result)
}

// WithDefaults fills zero values. The original is not modified.
func (o Options) WithDefaults() Options {
	if o.Mode == "" {
		o.Mode = layout.ModeTree
	}
	if o.TooltipStyle == "" {
		o.TooltipStyle = render.TooltipFull
	}
	if o.ResizeDelay == 0 {
		o.ResizeDelay = 120 * time.Millisecond
	}
	return o
}

// Canvas owns one rendered tree: the snapshot, the active strategy,
// the viewport, the latest layout result, and the view state (pan/zoom
// transform, hover, search highlights, theme). All methods are safe
// for concurrent use.
type Canvas struct {
	mu sync.RWMutex

	tree *lineage.Tree
	opts Options

	mode    string
	vp      layout.Viewport
	pending layout.Viewport
	result  *layout.Result

	transform  Transform
	hoverID    string
	highlights []string
	query      string

	index *hitIndex

	debounced func(func())
}

// New lays the tree out immediately and returns the canvas. A zero
// viewport is accepted as the not-yet-measured state: the result stays
// empty and [Canvas.Surface] returns nil until the first real Resize.
func New(tree *lineage.Tree, vp layout.Viewport, opts Options) (*Canvas, error) {
	if tree == nil {
		return nil, layout.ErrNilTree
	}
	opts = opts.WithDefaults()
	if _, err := layout.ForMode(opts.Mode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMode, err, "canvas mode %q", opts.Mode)
	}

	c := &Canvas{
		tree:      tree,
		opts:      opts,
		mode:      opts.Mode,
		vp:        vp,
		transform: Identity(),
	}
	if opts.ResizeDelay > 0 {
		c.debounced = debounce.New(opts.ResizeDelay)
	}

	c.mu.Lock()
	err := c.relayoutLocked()
	cb, res := c.opts.OnRelayout, c.result
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if cb != nil {
		cb(res)
	}
	return c, nil
}

// relayoutLocked reruns the active strategy for the current viewport
// and rebuilds the hover index. The node list never changes here:
// identities are fixed at normalization, layout only moves them.
func (c *Canvas) relayoutLocked() error {
	strat, err := layout.ForMode(c.mode)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMode, err, "canvas mode %q", c.mode)
	}
	res, err := strat.Layout(c.tree, c.vp, c.opts.Layout)
	if err != nil {
		return err
	}
	c.result = res
	c.index = buildHitIndex(res)
	return nil
}

// Resize updates the viewport and relayouts. No-op sizes (the current
// size again, or a degenerate measurement) are ignored, so callers can
// report every frame without thrashing. Bursts are debounced; only the
// final size is laid out. Fullscreen enter and exit go through here
// with the screen size, there is no separate path.
func (c *Canvas) Resize(w, h float64) {
	c.mu.Lock()
	if w <= 0 || h <= 0 {
		c.mu.Unlock()
		return
	}
	next := layout.Viewport{Width: w, Height: h}
	if next == c.vp || next == c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = next
	deb := c.debounced
	c.mu.Unlock()

	if deb == nil {
		c.applyPendingResize()
		return
	}
	deb(c.applyPendingResize)
}

func (c *Canvas) applyPendingResize() {
	c.mu.Lock()
	if c.pending == (layout.Viewport{}) || c.pending == c.vp {
		c.mu.Unlock()
		return
	}
	c.vp = c.pending
	c.pending = layout.Viewport{}
	err := c.relayoutLocked()
	cb, res := c.opts.OnRelayout, c.result
	c.mu.Unlock()

	if err == nil && cb != nil {
		cb(res)
	}
}

// SetMode switches the layout strategy and relayouts. The dot mode is
// not a canvas mode: it renders through Graphviz, not through a scene.
func (c *Canvas) SetMode(mode string) error {
	if _, err := layout.ForMode(mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMode, err, "canvas mode %q", mode)
	}

	c.mu.Lock()
	if mode == c.mode {
		c.mu.Unlock()
		return nil
	}
	c.mode = mode
	err := c.relayoutLocked()
	cb, res := c.opts.OnRelayout, c.result
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if cb != nil {
		cb(res)
	}
	return nil
}

// Hover resolves the pointer to at most one node and records it for
// the next surface. Pointer coordinates are screen coordinates; the
// inverse pan/zoom transform is applied before hit-testing. Returns
// the full tooltip payload of the hit node.
func (c *Canvas) Hover(x, y float64) (layout.PlacedNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.hoverID = ""
		return layout.PlacedNode{}, false
	}
	world := c.transform.Invert(layout.Point{X: x, Y: y})
	n, ok := c.index.hit(world)
	if !ok {
		c.hoverID = ""
		return layout.PlacedNode{}, false
	}
	c.hoverID = n.ID
	return n, true
}

// ZoomAt scales the view by factor, anchored at the screen point
// (px, py). The resulting scale is clamped to [MinZoom, MaxZoom].
func (c *Canvas) ZoomAt(factor, px, py float64) {
	c.mu.Lock()
	c.transform = c.transform.zoomAt(factor, px, py)
	c.mu.Unlock()
}

// Pan shifts the view by a screen-space delta.
func (c *Canvas) Pan(dx, dy float64) {
	c.mu.Lock()
	c.transform = c.transform.pan(dx, dy)
	c.mu.Unlock()
}

// ResetView restores the identity transform.
func (c *Canvas) ResetView() {
	c.mu.Lock()
	c.transform = Identity()
	c.mu.Unlock()
}

// Search highlights nodes whose word contains the query,
// case-insensitively. An empty or blank query clears the highlight
// set. Returns the matched IDs in tree order.
func (c *Canvas) Search(query string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = strings.TrimSpace(query)
	if c.query == "" {
		c.highlights = nil
		return nil
	}
	needle := strings.ToLower(c.query)
	var ids []string
	c.tree.Walk(func(n *lineage.Node) bool {
		if strings.Contains(strings.ToLower(n.Word), needle) {
			ids = append(ids, n.ID)
		}
		return true
	})
	c.highlights = ids
	return slices.Clone(ids)
}

// SetDark switches the surface theme.
func (c *Canvas) SetDark(dark bool) {
	c.mu.Lock()
	c.opts.Dark = dark
	c.mu.Unlock()
}

// SetTooltipStyle validates and stores the tooltip style.
func (c *Canvas) SetTooltipStyle(style string) error {
	switch style {
	case render.TooltipFull, render.TooltipCompact, render.TooltipOff:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown tooltip style %q (available: full, compact, off)", style)
	}
	c.mu.Lock()
	c.opts.TooltipStyle = style
	c.mu.Unlock()
	return nil
}

// Surface returns the exportable scene for the current state, or nil
// when nothing is rendered yet (zero viewport, empty result).
func (c *Canvas) Surface() *render.Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.result == nil || c.result.Empty() {
		return nil
	}
	return render.BuildScene(c.result, render.ViewState{
		Dark:         c.opts.Dark,
		TooltipStyle: c.opts.TooltipStyle,
		HoverID:      c.hoverID,
		Highlights:   slices.Clone(c.highlights),
		SearchWord:   c.tree.Root().Word,
	})
}

// ===== Accessors =====

// Mode returns the active layout strategy name.
func (c *Canvas) Mode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Viewport returns the last applied viewport.
func (c *Canvas) Viewport() layout.Viewport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vp
}

// Result returns the latest layout result.
func (c *Canvas) Result() *layout.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Transform returns the current pan/zoom transform.
func (c *Canvas) Transform() Transform {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transform
}

// Highlights returns the current search highlight set.
func (c *Canvas) Highlights() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.highlights)
}

// Tree returns the underlying snapshot.
func (c *Canvas) Tree() *lineage.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}
