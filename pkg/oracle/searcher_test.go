package oracle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mhuisman/etymon/pkg/etymology"
)

// gateTracer blocks each Trace until its word's gate is released. It
// deliberately ignores context cancellation so tests can make a
// superseded search resolve late and verify the result is discarded.
type gateTracer struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGateTracer() *gateTracer {
	return &gateTracer{gates: make(map[string]chan struct{}), started: make(chan string, 8)}
}

func (g *gateTracer) gate(word string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.gates[word]; !ok {
		g.gates[word] = make(chan struct{})
	}
	return g.gates[word]
}

func (g *gateTracer) release(word string) { close(g.gate(word)) }

func (g *gateTracer) Trace(_ context.Context, word string, _ etymology.Options) (*etymology.Node, error) {
	gate := g.gate(word)
	g.started <- word
	<-gate
	return &etymology.Node{Word: word, Language: "English"}, nil
}

func (g *gateTracer) Name() string { return "gate" }

// cancelableTracer honors context cancellation, never resolving otherwise.
type cancelableTracer struct {
	started chan context.Context
}

func (c *cancelableTracer) Trace(ctx context.Context, word string, _ etymology.Options) (*etymology.Node, error) {
	c.started <- ctx
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *cancelableTracer) Name() string { return "cancelable" }

func waitStarted(t *testing.T, started <-chan string, want string) {
	t.Helper()
	select {
	case got := <-started:
		if got != want {
			t.Fatalf("search started for %q, want %q", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("search for %q never started", want)
	}
}

func expectResult(t *testing.T, results <-chan Result, word string) {
	t.Helper()
	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatalf("result error: %v", r.Err)
		}
		if r.Word != word {
			t.Fatalf("delivered %q, want %q", r.Word, word)
		}
	case <-time.After(time.Second):
		t.Fatalf("no result for %q", word)
	}
}

func expectSilence(t *testing.T, results <-chan Result) {
	t.Helper()
	select {
	case r := <-results:
		t.Fatalf("unexpected delivery: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSearcherDelivers(t *testing.T) {
	tracer := newGateTracer()
	results := make(chan Result, 8)
	s := NewSearcher(tracer, etymology.Options{}, func(r Result) { results <- r })

	s.Search(context.Background(), "night")
	waitStarted(t, tracer.started, "night")
	tracer.release("night")

	expectResult(t, results, "night")
}

func TestSearcherLaterSearchWins(t *testing.T) {
	// The first search resolves after the second; its result must be
	// discarded even though the tracer ignored the cancellation.
	tracer := newGateTracer()
	results := make(chan Result, 8)
	s := NewSearcher(tracer, etymology.Options{}, func(r Result) { results <- r })

	s.Search(context.Background(), "alpha")
	waitStarted(t, tracer.started, "alpha")

	s.Search(context.Background(), "beta")
	waitStarted(t, tracer.started, "beta")

	tracer.release("beta")
	expectResult(t, results, "beta")

	tracer.release("alpha")
	expectSilence(t, results)
}

func TestSearcherCancelsPreviousContext(t *testing.T) {
	tracer := &cancelableTracer{started: make(chan context.Context, 2)}
	results := make(chan Result, 8)
	s := NewSearcher(tracer, etymology.Options{}, func(r Result) { results <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Search(ctx, "first")
	first := <-tracer.started

	s.Search(ctx, "second")
	<-tracer.started

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("previous search context not cancelled")
	}

	// The first search unwinds with context.Canceled: nothing delivered.
	expectSilence(t, results)
}

func TestSearcherCancel(t *testing.T) {
	tracer := &cancelableTracer{started: make(chan context.Context, 2)}
	results := make(chan Result, 8)
	s := NewSearcher(tracer, etymology.Options{}, func(r Result) { results <- r })

	s.Cancel() // nothing in flight: no-op

	s.Search(context.Background(), "word")
	ctx := <-tracer.started
	s.Cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Cancel did not cancel the in-flight context")
	}
	expectSilence(t, results)
}
