package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/mhuisman/etymon/pkg/lineage"
)

func init() { register(forceStrategy{}) }

// Force simulation tuning. The numbers trade convergence speed against
// stability; they are not exposed as options because every combination
// that diverges is a bug, not a preference.
const (
	springK        = 0.08 // attraction along parent/child links
	repulsionK     = 2500 // pairwise push, scaled by 1/distance
	centeringK     = 0.03 // pull toward the viewport center
	damping        = 0.85 // velocity retained per tick
	timestep       = 1.0
	convergenceEps = 0.05 // max node speed below which the system is settled
	minDistance    = 0.01 // clamps distances so forces stay finite
)

// forceStrategy wraps [Simulation] behind the pure Strategy contract:
// it runs the full tick budget synchronously and returns the settled
// positions. Interactive callers construct the Simulation directly for
// progressive rendering and cancellation.
type forceStrategy struct{}

func (forceStrategy) Name() string { return ModeForce }

func (forceStrategy) Layout(tree *lineage.Tree, vp Viewport, opts Options) (*Result, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	opts = opts.WithDefaults()
	if vp.Empty() {
		return emptyResult(ModeForce, vp), nil
	}

	sim := NewSimulation(tree, vp, opts)
	return sim.Run(context.Background())
}

// simNode is one body in the simulation.
type simNode struct {
	node   *lineage.Node
	pos    r2.Vec
	vel    r2.Vec
	radius float64
}

// simLink is one spring between parent and child.
type simLink struct {
	a, b int
	rest float64
}

// Simulation is the stateful force-directed relaxation behind [ModeForce].
//
// Four forces act per tick: spring attraction between linked pairs toward
// a rest length, pairwise repulsion inversely proportional to distance, a
// centering pull toward the viewport center, and a collision constraint
// keeping node bounding circles from overlapping.
//
// The simulation is deterministic per seed. It is safe for concurrent use:
// Step, Run, Cancel, and Result may be called from different goroutines,
// which is exactly what happens when a new search cancels a simulation
// mid-flight.
type Simulation struct {
	// OnTick, when set before Run, receives a position snapshot after
	// every tick for progressive rendering. It runs on Run's goroutine.
	OnTick func(tick int, res *Result)

	mu       sync.Mutex
	tree     *lineage.Tree
	vp       Viewport
	opts     Options
	nodes    []simNode
	links    []simLink
	tick     int
	done     chan struct{}
	cancelFn sync.Once
}

// NewSimulation seeds initial positions and builds the spring network.
// Initial placement scatters nodes around the viewport center using the
// seeded generator, so two simulations with equal inputs evolve
// identically.
func NewSimulation(tree *lineage.Tree, vp Viewport, opts Options) *Simulation {
	opts = opts.WithDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	center := vp.Center()

	treeNodes := tree.Nodes()
	idx := make(map[string]int, len(treeNodes))
	nodes := make([]simNode, len(treeNodes))
	spread := math.Min(vp.Width, vp.Height) / 3
	for i, n := range treeNodes {
		idx[n.ID] = i
		nodes[i] = simNode{
			node: n,
			pos: r2.Vec{
				X: center.X + (rng.Float64()-0.5)*spread,
				Y: center.Y + (rng.Float64()-0.5)*spread,
			},
			radius: opts.NodeHeight / 2,
		}
	}
	// The root starts pinned to the center so the tree grows around it.
	if len(nodes) > 0 {
		nodes[idx[tree.Root().ID]].pos = r2.Vec{X: center.X, Y: center.Y}
	}

	links := make([]simLink, 0, len(treeNodes)-1)
	for _, e := range tree.Edges() {
		links = append(links, simLink{
			a:    idx[e.From],
			b:    idx[e.To],
			rest: opts.LevelSpacing + opts.NodeHeight,
		})
	}

	return &Simulation{
		tree:  tree,
		vp:    vp,
		opts:  opts,
		nodes: nodes,
		links: links,
		done:  make(chan struct{}),
	}
}

// Step advances the simulation one tick and returns the fastest node
// speed, which Run compares against the convergence threshold.
func (s *Simulation) Step() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

func (s *Simulation) step() float64 {
	center := r2.Vec{X: s.vp.Width / 2, Y: s.vp.Height / 2}

	// Spring attraction along links.
	for _, l := range s.links {
		d := r2.Sub(s.nodes[l.b].pos, s.nodes[l.a].pos)
		dist := math.Max(r2.Norm(d), minDistance)
		f := springK * (dist - l.rest)
		impulse := r2.Scale(f*timestep/dist, d)
		s.nodes[l.a].vel = r2.Add(s.nodes[l.a].vel, impulse)
		s.nodes[l.b].vel = r2.Sub(s.nodes[l.b].vel, impulse)
	}

	// Pairwise repulsion, inversely proportional to distance.
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			d := r2.Sub(s.nodes[j].pos, s.nodes[i].pos)
			dist := math.Max(r2.Norm(d), minDistance)
			impulse := r2.Scale(repulsionK*timestep/(dist*dist), d)
			s.nodes[i].vel = r2.Sub(s.nodes[i].vel, impulse)
			s.nodes[j].vel = r2.Add(s.nodes[j].vel, impulse)
		}
	}

	// Centering pull and integration.
	maxSpeed := 0.0
	for i := range s.nodes {
		toCenter := r2.Sub(center, s.nodes[i].pos)
		s.nodes[i].vel = r2.Add(s.nodes[i].vel, r2.Scale(centeringK*timestep, toCenter))
		s.nodes[i].pos = r2.Add(s.nodes[i].pos, r2.Scale(timestep, s.nodes[i].vel))
		s.nodes[i].vel = r2.Scale(damping, s.nodes[i].vel)
		if speed := r2.Norm(s.nodes[i].vel); speed > maxSpeed {
			maxSpeed = speed
		}
	}

	// Collision: push overlapping bounding circles apart symmetrically.
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			d := r2.Sub(s.nodes[j].pos, s.nodes[i].pos)
			dist := math.Max(r2.Norm(d), minDistance)
			overlap := s.nodes[i].radius + s.nodes[j].radius - dist
			if overlap <= 0 {
				continue
			}
			push := r2.Scale(overlap/2/dist, d)
			s.nodes[i].pos = r2.Sub(s.nodes[i].pos, push)
			s.nodes[j].pos = r2.Add(s.nodes[j].pos, push)
		}
	}

	s.tick++
	return maxSpeed
}

// Run ticks the simulation until the iteration budget is spent, the
// system converges, the context is canceled, or Cancel is called. The
// returned Result reflects the positions at stop time, so a canceled run
// still yields drawable geometry.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	for i := 0; i < s.opts.Iterations; i++ {
		select {
		case <-ctx.Done():
			return s.Result(), ctx.Err()
		case <-s.done:
			return s.Result(), nil
		default:
		}

		maxSpeed := s.Step()
		if s.OnTick != nil {
			s.OnTick(i+1, s.Result())
		}
		if maxSpeed < convergenceEps {
			break
		}
	}
	return s.Result(), nil
}

// Cancel stops a concurrent Run after its current tick. Canceling twice
// or canceling a finished simulation is a no-op.
func (s *Simulation) Cancel() {
	s.cancelFn.Do(func() { close(s.done) })
}

// Ticks returns the number of ticks stepped so far.
func (s *Simulation) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Result snapshots current positions into the serializable layout form.
func (s *Simulation) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]PlacedNode, len(s.nodes))
	for i, sn := range s.nodes {
		pn := circleNode(sn.node, s.opts)
		pn.X, pn.Y = sn.pos.X, sn.pos.Y
		nodes[i] = pn
	}

	edges := make([]PlacedEdge, 0, len(s.links))
	for _, l := range s.links {
		a, b := nodes[l.a], nodes[l.b]
		edges = append(edges, PlacedEdge{
			From:   a.ID,
			To:     b.ID,
			Kind:   EdgeLine,
			Points: []Point{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}},
		})
	}

	return &Result{
		Mode:       ModeForce,
		Width:      s.vp.Width,
		Height:     s.vp.Height,
		Nodes:      nodes,
		Edges:      edges,
		Bounds:     boundsOf(nodes),
		Seed:       s.opts.Seed,
		Iterations: s.tick,
	}
}
