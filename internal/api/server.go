// Package api exposes the visualization pipeline and the garden over HTTP.
//
// The server is a thin shell around pipeline.Runner: every endpoint
// decodes options, runs the shared pipeline, and encodes the outcome, so
// API responses and CLI output always agree. Alongside the pipeline
// routes it serves garden CRUD, a mode catalog, a health probe, and a
// Server-Sent Events stream that notifies clients when watched files
// (the garden, the config) change on disk.
//
// Routes:
//
//	GET  /healthz             liveness and build version
//	GET  /events              SSE change notifications
//	POST /api/trace           fetch and normalize a lineage
//	GET  /api/layout          compute a layout (query parameters)
//	POST /api/layout          compute a layout (options body)
//	POST /api/export          render artifacts
//	GET  /api/modes           list layout modes
//	GET  /api/garden          list saved words
//	POST /api/garden          save a word
//	GET  /api/garden/{id}     fetch a saved word
//	DELETE /api/garden/{id}   remove a saved word
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/mhuisman/etymon/pkg/garden"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8573"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Config assembles a Server. Zero fields get working defaults: a null
// cache runner (which cannot trace), an in-memory garden, no watched
// paths, and the package logger.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Garden garden.Store

	// Watch maps filesystem paths to the source label clients receive
	// when that path changes, e.g. the garden file to "garden".
	Watch map[string]string

	Logger *log.Logger
}

// Server carries the HTTP surface and its collaborators.
type Server struct {
	addr   string
	runner *pipeline.Runner
	garden garden.Store
	hub    *EventHub
	logger *log.Logger
	http   *http.Server
}

// New assembles a server from the config. The event hub is created but
// not started; ListenAndServe starts it.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, nil, cfg.Logger)
	}
	if cfg.Garden == nil {
		cfg.Garden = garden.NewMemoryStore()
	}

	hub, err := NewEventHub(cfg.Watch)
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:   cfg.Addr,
		runner: cfg.Runner,
		garden: cfg.Garden,
		hub:    hub,
		logger: cfg.Logger,
	}, nil
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withRequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Get("/events", s.hub.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/trace", s.handleTrace)
		r.Get("/layout", s.handleLayoutQuery)
		r.Post("/layout", s.handleLayout)
		r.Post("/export", s.handleExport)
		r.Get("/modes", s.handleModes)

		r.Route("/garden", func(r chi.Router) {
			r.Get("/", s.handleGardenList)
			r.Post("/", s.handleGardenSave)
			r.Get("/{id}", s.handleGardenGet)
			r.Delete("/{id}", s.handleGardenDelete)
		})
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// drains connections gracefully. The file watcher failing to start is
// logged but does not prevent serving; /events simply stays quiet.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.hub.Start(); err != nil {
		s.logger.Warn("file watching unavailable", "error", err)
	}
	defer s.hub.Stop()

	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := s.http.Shutdown(shutdownCtx)
		<-errCh
		return err
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
