package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Server runs the API until its context is cancelled
type Server struct {
	controller *Controller
	server     *http.Server
}

func NewServer(addr string, c *Controller) *Server {
	return &Server{
		controller: c,
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(c),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      120 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run starts background services and the HTTP server, and blocks until ctx
// is done or the server fails
func (s *Server) Run(ctx context.Context) error {
	if err := s.controller.StartServices(); err != nil {
		return errors.Wrap(err, "failed to start services")
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
			return err
		}
		if err := s.controller.StopServices(); err != nil {
			log.Error().Err(err).Msg("Error stopping services")
		}
		log.Info().Msg("Server shutdown complete")
		return nil
	})

	eg.Go(func() error {
		log.Info().Str("addr", s.server.Addr).Msg("Starting IsCoolGPT API")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server listen error")
			return err
		}
		return nil
	})

	return eg.Wait()
}
