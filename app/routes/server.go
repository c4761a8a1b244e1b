package routes

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Server serves a handler until its context is cancelled, then drains
// in-flight requests for up to the grace period.
type Server struct {
	srv    *http.Server
	grace  time.Duration
	logger logrus.FieldLogger
}

// NewServer creates a Server for handler
func NewServer(handler http.Handler, grace time.Duration, logger logrus.FieldLogger) *Server {
	return &Server{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grace:  grace,
		logger: logger,
	}
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "could not listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.WithField("addr", ln.Addr().String()).Info("Listening")

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server stopped unexpectedly")
	case <-ctx.Done():
	}

	s.logger.WithField("grace", s.grace).Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "could not shut down the server cleanly")
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
