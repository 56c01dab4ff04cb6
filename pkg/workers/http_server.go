package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
}

func NewHTTPServer(addr string, h http.Handler) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *httpServer) Name() string { return "http_server" }

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *httpServer) Run(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name(), "addr", s.server.Addr)
	defer slog.Info("Worker stopped", "name", s.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
