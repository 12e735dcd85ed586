package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/config"
	"aegisai/aegis/pkg/pipeline"
	"aegisai/aegis/pkg/telemetry/metrics"
)

// Server is the governance HTTP API server.
type Server struct {
	config       *config.ServerConfig
	orchestrator *pipeline.Orchestrator
	verifier     auth.Verifier
	metrics      *metrics.Collector

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	running      bool
}

// NewServer creates a Server. The metrics collector may be nil, which
// disables the /metrics endpoint and HTTP instrumentation.
func NewServer(cfg *config.ServerConfig, orch *pipeline.Orchestrator, verifier auth.Verifier, collector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		orchestrator: orch,
		verifier:     verifier,
		metrics:      collector,
	}
}

// Start runs the HTTP server and blocks until the context is cancelled,
// a shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.routes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting governance server", "address", s.config.ListenAddress)
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
		return err
	}
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		s.running = false
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

		slog.Info("governance server stopped")
	})

	return shutdownErr
}

// Handler returns the full handler tree with middleware applied, for
// mounting in tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// routes builds the handler tree with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze-prompt", s.handlePipeline(pipeline.KindPromptAnalysis))
	mux.HandleFunc("/api/audit-output", s.handlePipeline(pipeline.KindOutputAudit))
	mux.HandleFunc("/api/submit-feedback", s.handlePipeline(pipeline.KindFeedbackCollection))
	mux.HandleFunc("/api/get-advisory", s.handlePipeline(pipeline.KindAdvisoryGuidance))
	mux.HandleFunc("/api/full-governance-check", s.handlePipeline(pipeline.KindFullGovernance))
	mux.HandleFunc("/api/audit-logs", s.handleAuditLogs)
	mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = corsMiddleware(s.config.CORS)(handler)
	handler = loggingMiddleware(s.metrics)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}
