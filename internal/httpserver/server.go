package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sports_community/internal/observability"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

type Server struct {
	server          *http.Server
	shutDownTimeout time.Duration
}

func New(addr string, handler http.Handler) *Server {
	srv := &http.Server{
		Handler:           handler,
		Addr:              addr,
		ReadTimeout:       defaultReadTimeout,
		ReadHeaderTimeout: defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
	}
	return &Server{server: srv, shutDownTimeout: defaultShutdownTimeout}
}

func (s *Server) Addr() string { return s.server.Addr }

// Run 阻塞到 ctx 结束或监听失败，ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	observability.Logger.Info("http server listening", slog.String("addr", s.server.Addr))

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	observability.Logger.Info("http server shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutDownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
