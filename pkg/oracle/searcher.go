package oracle

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/mhuisman/etymon/pkg/etymology"
)

// Result is the outcome of one search, delivered to the Searcher callback.
type Result struct {
	Word   string
	Record *etymology.Node
	Err    error
}

// Searcher serializes interactive lookups against a tracer.
//
// Each Search supersedes the one before it: the previous request's
// context is cancelled, and if its response still arrives, it is
// discarded rather than delivered. Only the most recent search can
// deliver, so callers never see results regress to an earlier word.
//
// The deliver callback runs on the search goroutine while the Searcher's
// lock is held, so it must not call Search or Cancel on the same
// Searcher. All methods are safe for concurrent use.
type Searcher struct {
	tracer  etymology.Tracer
	opts    etymology.Options
	deliver func(Result)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a Searcher that traces with the given options and
// hands outcomes to deliver. A nil deliver discards outcomes.
func NewSearcher(tracer etymology.Tracer, opts etymology.Options, deliver func(Result)) *Searcher {
	if deliver == nil {
		deliver = func(Result) {}
	}
	return &Searcher{tracer: tracer, opts: opts, deliver: deliver}
}

// Search starts a lookup for word, superseding any search in flight.
// It returns immediately; the outcome arrives through the deliver
// callback unless a newer search supersedes this one first. Cancelled
// searches deliver nothing.
func (s *Searcher) Search(ctx context.Context, word string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		rec, err := s.tracer.Trace(ctx, word, s.opts)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq || stderrors.Is(err, context.Canceled) {
			return
		}
		s.deliver(Result{Word: word, Record: rec, Err: err})
	}()
}

// Cancel aborts the in-flight search, if any. The aborted search
// delivers nothing.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
