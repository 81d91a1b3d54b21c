package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventHub manages SSE connections and file watching for the /events
// endpoint. Clients receive a change event whenever a watched file (the
// garden, the config) is modified on disk or a handler calls Notify
// after mutating state, so UIs can refresh without polling.
type EventHub struct {
	// watched maps cleaned absolute paths to the source label clients
	// receive when that path changes.
	watched map[string]string

	watcher *fsnotify.Watcher

	// clients holds all connected SSE clients
	mu      sync.RWMutex
	clients map[chan string]struct{}

	// context for shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// debounce rapid file changes
	lastEvent time.Time
	debounce  time.Duration
}

// NewEventHub creates a hub for the given path-to-label map. The file
// watcher itself is created by Start; a hub with nothing to watch still
// serves connections and Notify calls.
func NewEventHub(watch map[string]string) (*EventHub, error) {
	watched := make(map[string]string, len(watch))
	for path, label := range watch {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve watch path %s: %w", path, err)
		}
		watched[abs] = label
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &EventHub{
		watched:  watched,
		clients:  make(map[chan string]struct{}),
		ctx:      ctx,
		cancel:   cancel,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Start begins watching the registered files. Parent directories are
// watched rather than the files themselves, because editors and the
// garden's atomic writes replace files instead of modifying them in
// place, which silently kills a direct file watch.
func (h *EventHub) Start() error {
	if len(h.watched) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	dirs := make(map[string]struct{}, len(h.watched))
	for path := range h.watched {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	h.watcher = watcher
	go h.watchLoop()
	return nil
}

// Stop shuts down the hub and disconnects all clients.
func (h *EventHub) Stop() {
	h.cancel()
	if h.watcher != nil {
		h.watcher.Close()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		close(ch)
	}
	h.clients = make(map[chan string]struct{})
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// watchLoop processes file system events and notifies clients.
func (h *EventHub) watchLoop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Rename is included because atomic replaces surface as
			// rename-then-create; chmod and friends stay ignored.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			label, ok := h.watched[filepath.Clean(event.Name)]
			if !ok {
				continue
			}

			// Debounce rapid changes
			now := time.Now()
			if now.Sub(h.lastEvent) < h.debounce {
				continue
			}
			h.lastEvent = now

			h.Notify(label)

		case _, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			// Errors don't stop the watcher
		}
	}
}

// Notify sends a change event with the given source label to all
// connected clients. Slow clients are skipped rather than blocked on.
func (h *EventHub) Notify(source string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- source:
		default:
		}
	}
}

// Handler returns the HTTP handler for the SSE endpoint.
func (h *EventHub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		clientCh := make(chan string, 1)
		h.mu.Lock()
		h.clients[clientCh] = struct{}{}
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.clients, clientCh)
			h.mu.Unlock()
		}()

		fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-h.ctx.Done():
				return
			case source, ok := <-clientCh:
				if !ok {
					return
				}
				data, _ := json.Marshal(map[string]string{"source": source})
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
