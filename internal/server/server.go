// Package server exposes the aligner over HTTP.
//
// Routes:
//
//	POST /v1/align      transcript, glyphs and layout in, syllable boxes out
//	POST /v1/syllabify  text in, syllables out
//	GET  /healthz
//
// Every response carries an X-Request-Id header. Requests are processed independently and
// the server holds no state between them.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gardar/textalign/pkg/textalign"
)

// maxBodyBytes bounds request bodies; a dense page has a few thousand glyphs
const maxBodyBytes = 32 << 20

// Server serves the HTTP API
type Server struct {
	cfg    textalign.Config
	logger *log.Logger
	router chi.Router
}

// New creates a server whose requests start from cfg. Requests may override the scoring
// system and the glyph clean-up switches.
func New(cfg textalign.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/align", s.handleAlign)
		r.Post("/syllabify", s.handleSyllabify)
	})
	s.router = r
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
