package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/server/handlers"
	"contentworks/csvexport/pkg/server/middleware"
	"contentworks/csvexport/pkg/telemetry/health"
	"contentworks/csvexport/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Server is the HTTP server exposing CSV exports.
type Server struct {
	config       *config.ServerConfig
	exporter     *export.Exporter
	source       export.Source
	metricsPath  string
	metrics      http.Handler
	health       *health.Checker
	version      health.VersionInfo
	tracer       trace.Tracer
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves handler at path.
func WithMetrics(path string, handler http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = handler
	}
}

// WithHealth uses checker for the /health and /ready probes.
func WithHealth(checker *health.Checker) Option {
	return func(s *Server) {
		s.health = checker
	}
}

// WithVersion sets the build information served at /version.
func WithVersion(version, commit, buildTime string) Option {
	return func(s *Server) {
		s.version = health.VersionInfo{Version: version, Commit: commit, BuildTime: buildTime}
	}
}

// WithTracer starts a server span for every request.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// NewServer creates a new export server reading records from source.
func NewServer(cfg *config.ServerConfig, exporter *export.Exporter, source export.Source, opts ...Option) *Server {
	s := &Server{
		config:       cfg,
		exporter:     exporter,
		source:       source,
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.health == nil {
		s.health = health.New(0)
	}
	return s
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting export server",
			"address", s.config.ListenAddress,
			"mount_prefix", s.config.MountPrefix,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("export server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	prefix := strings.TrimRight(s.config.MountPrefix, "/")

	listHandler := handlers.NewListHandler(s.exporter, prefix)
	exportHandler := handlers.NewExportHandler(s.exporter, s.source)

	if prefix == "" {
		mux.Handle("GET /{$}", listHandler)
	} else {
		mux.Handle("GET "+prefix, listHandler)
		mux.Handle("GET "+prefix+"/{$}", listHandler)
	}
	mux.Handle("GET "+prefix+"/{"+handlers.ContentTypeParam+"}", exportHandler)
	mux.Handle("GET /health", s.health.LivenessHandler())
	mux.Handle("GET /ready", s.health.ReadinessHandler())
	mux.Handle("GET /version", health.VersionHandler(s.version.Version, s.version.Commit, s.version.BuildTime))

	if s.metrics != nil && s.metricsPath != "" {
		mux.Handle("GET "+s.metricsPath, s.metrics)
	}

	var handler http.Handler = mux

	// Logging runs inside RequestID so every access log carries the ID.
	handler = middleware.LoggingMiddleware(handler)
	if s.tracer != nil {
		handler = tracing.HTTPMiddleware(s.tracer)(handler)
	}
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
