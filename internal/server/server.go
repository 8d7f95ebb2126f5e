package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/config"
)

type Server struct {
	cfg  *config.Config
	deps *dependencies
	http *http.Server
}

// New builds every component from cfg. Optional backends that cannot be
// reached are logged and left disabled.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build dependencies: %w", err)
	}

	s := &Server{cfg: cfg, deps: deps}
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.AgentTimeout+30) * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)
		s.Close()
		return err
	case err := <-errCh:
		s.Close()
		return err
	}
}

// Close releases the database pool and the activity sinks.
func (s *Server) Close() {
	if err := s.deps.fanout.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing activity sinks")
	}
	if s.deps.pool != nil {
		s.deps.pool.Close()
		log.Info().Msg("database pool closed")
	}
}
