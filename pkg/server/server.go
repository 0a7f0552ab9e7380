// Package server exposes computed tables over HTTP.
//
// A [Server] serves one dataset loaded at startup. Every table request binds
// its own filter_track_ids argument, so concurrent requests never share
// layout state.
//
// # Routes
//
//	GET /healthz             liveness and dataset size
//	GET /v1/tracks           per-track summaries of the dataset
//	GET /v1/tables           registered tables and their schemas
//	GET /v1/tables/{name}    compute and render one table
//
// The table route accepts filter_track_ids (required unless all_tracks is
// set), repeated where and order clauses, format (json, ascii or svg) and
// width.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tracelayout/pkg/pipeline"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// Default timeouts used when none are configured.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server serves computed tables over one dataset.
type Server struct {
	runner  *pipeline.Runner
	dataset *pipeline.Dataset
	tables  *table.Registry
	logger  *log.Logger

	checkOrder      bool
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	router chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOrderCheck validates the ordering of the requested tracks before
// every computation.
func WithOrderCheck(enabled bool) Option {
	return func(s *Server) { s.checkOrder = enabled }
}

// WithTimeouts sets the HTTP read, write and graceful shutdown timeouts.
// Zero values keep the defaults.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if shutdown > 0 {
			s.shutdownTimeout = shutdown
		}
	}
}

// New creates a server for ds. Table results are cached through runner.
func New(runner *pipeline.Runner, ds *pipeline.Dataset, opts ...Option) *Server {
	s := &Server{
		runner:          runner,
		dataset:         ds,
		logger:          runner.Logger,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tables = pipeline.NewRegistry(ds.Slices, s.checkOrder, s.logger)
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tracks", s.handleTracks)
		r.Get("/tables", s.handleTables)
		r.Get("/tables/{name}", s.handleTable)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "slices", s.dataset.Slices.RowCount())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
