package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

// Server serves the todo API until its context ends, then drains in-flight
// requests.
type Server struct {
	srv             *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server from the server section of the config.
// ReadHeaderTimeout never exceeds ReadTimeout, and an unset shutdown timeout
// is 10 seconds.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	readHeaderTimeout := defaultReadHeaderTimeout
	if cfg.ReadTimeout > 0 && cfg.ReadTimeout < readHeaderTimeout {
		readHeaderTimeout = cfg.ReadTimeout
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then stops accepting
// and waits up to the shutdown timeout for in-flight requests. It returns
// nil after a clean drain and the serve error if serving failed first.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving todo API", slog.String("addr", ln.Addr().String()))

	served := make(chan error, 1)
	go func() {
		served <- s.srv.Serve(ln)
	}()

	select {
	case err := <-served:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("draining in-flight requests", slog.Duration("timeout", s.shutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	shutdownErr := s.srv.Shutdown(drainCtx)
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(shutdownErr, fmt.Errorf("http server error: %w", err))
	}
	if shutdownErr != nil {
		return fmt.Errorf("draining requests: %w", shutdownErr)
	}
	return nil
}
