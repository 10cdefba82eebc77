// Package server exposes survey collection and word-cloud generation over
// HTTP.
//
// Routes:
//
//	GET  /                       submission form with links to the cloud
//	POST /responses              store a response (form or JSON body)
//	GET  /responses              list stored responses as JSON
//	GET  /stats                  response statistics as JSON
//	GET  /cloud.{png,svg,pdf,json}
//	GET  /metrics                in-process counters as JSON
//	GET  /healthz                liveness probe
//
// Cloud query parameters override the server defaults: bg, cmap, font,
// max_words, min_font_size, max_font_size, relative_scaling, width, height,
// seed, no_rotate and scale.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

const (
	defaultTitle    = "Survey Word Collector"
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Config holds the server's collaborators.
type Config struct {
	Store    survey.Store
	Runner   *pipeline.Runner
	Defaults pipeline.Options // base options for every cloud request
	Logger   *log.Logger
	Title    string
	Counters *observability.Counters // served on /metrics; may be nil
}

// Server is the HTTP front end.
type Server struct {
	store    survey.Store
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	title    string
	counters *observability.Counters
	router   chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		store:    cfg.Store,
		runner:   cfg.Runner,
		defaults: cfg.Defaults,
		logger:   cfg.Logger,
		title:    cfg.Title,
		counters: cfg.Counters,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.title == "" {
		s.title = defaultTitle
	}
	if s.counters == nil {
		s.counters = &observability.Counters{}
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves on l until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(l) }()
	s.logger.Info("listening", "addr", l.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
