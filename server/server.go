package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"portfolio/logger"
	"portfolio/options"
	"portfolio/util"
)

const bindRetryDelay = 250 * time.Millisecond

// Server serves the portfolio pages. Every request builds its own lists and
// stacks, so handlers share nothing but the parsed templates and metrics.
type Server struct {
	opts      *options.ServeOptions
	logger    logger.Logger
	templates map[string]*template.Template
	origins   []glob.Glob
	metrics   *metrics
}

func New(opts *options.ServeOptions, log logger.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	origins, err := compileOrigins(opts.CORSOrigins)
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:      opts,
		logger:    log,
		templates: templates,
		origins:   origins,
		metrics:   newMetrics(),
	}, nil
}

// Handler returns the routed pages wrapped in recovery, CORS, request id,
// access logging and metrics, outermost first.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)
	if s.opts.MetricsEnabled {
		mux.Handle("GET /metrics", s.metrics.handler())
	}

	handler := s.metrics.middleware(mux)
	handler = accessLogMiddleware(handler, s.logger)
	handler = requestIDMiddleware(handler)
	handler = corsMiddleware(handler, s.origins)
	return recoveryMiddleware(handler, s.logger)
}

// Listen binds the configured address, retrying while it is still held by a
// previous process.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	attempts := s.opts.BindRetries
	if attempts == 0 {
		attempts = 1
	}

	var listener net.Listener
	err := retry.Do(
		func() error {
			var listenErr error
			listener, listenErr = net.Listen("tcp", s.opts.Addr)
			return listenErr
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(bindRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Warn("failed to bind listen address",
				zap.String("addr", s.opts.Addr),
				zap.Uint("attempt", attempt+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, &util.ErrorWithCode{
			StatusCode:    util.ERROR_BIND_FAILED,
			InternalError: fmt.Errorf("failed to listen on '%v': %w", s.opts.Addr, err),
		}
	}
	return listener, nil
}

// Serve handles connections from listener until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("starting HTTP server on '%s'...", listener.Addr()))
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server closed with unexpected error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("attempting to shutdown gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("failed to shutdown the http server", zap.Error(err))
	}
	<-serveErr
	s.logger.Info("HTTP server shut down.")
	return nil
}

func (s *Server) Run(ctx context.Context) error {
	listener, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}
