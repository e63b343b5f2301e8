package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/config"
	"github.com/cortexai/igs/internal/service"
)

type Server struct {
	cfg        *config.Config
	dispatcher *service.Dispatcher
	metrics    http.Handler
	http       *http.Server
}

type Option func(*Server)

// WithMetrics serves h at the configured metrics path, outside auth and
// rate limiting.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func New(cfg *config.Config, dispatcher *service.Dispatcher, opts ...Option) *Server {
	s := &Server{cfg: cfg, dispatcher: dispatcher}
	for _, opt := range opts {
		opt(s)
	}

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.setupRoutes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
