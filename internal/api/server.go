// Package api implements the labelspread HTTP service.
//
// The service exposes one-shot placement, stored label sets, and rendered
// previews over JSON. All state lives behind the [Store] interface
// (in-memory by default, MongoDB for shared deployments) and all placement
// work goes through the shared pipeline runner so results and artifacts
// are cached exactly like the CLI's.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/labelspread/pkg/pipeline"
)

// Config configures the API server. Zero-value fields get safe defaults:
// an in-memory store, a cacheless pipeline runner, and the default logger.
type Config struct {
	// Addr is the listen address, e.g. ":8753".
	Addr string

	// Store persists label sets.
	Store Store

	// Runner executes placement and rendering.
	Runner *pipeline.Runner

	// Logger receives request and error logs.
	Logger *log.Logger
}

// Server is the labelspread HTTP service. It satisfies http.Handler, so
// tests can drive it without a listener.
type Server struct {
	addr   string
	store  Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
	http   *http.Server
}

// New builds a server with its routes mounted.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/placements", s.handlePlacements)

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", s.handleListSets)
			r.Post("/", s.handleCreateSet)

			r.Route("/{setID}", func(r chi.Router) {
				r.Get("/", s.handleGetSet)
				r.Delete("/", s.handleDeleteSet)
				r.Get("/result", s.handleSetResult)
				r.Get("/preview.svg", s.handleSetPreview)
			})
		})
	})

	s.router = r
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured address and serves until Shutdown is
// called or the listener fails. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("api listening", "addr", s.addr)
	return s.http.ListenAndServe()
}

// Shutdown stops the listener, draining in-flight requests until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("api shutting down")
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// Close releases the store and the runner's cache. Call it after Shutdown.
func (s *Server) Close(ctx context.Context) error {
	err := s.store.Close(ctx)
	if cerr := s.runner.Close(); err == nil {
		err = cerr
	}
	return err
}
