// Package server provides the HTTP API for the Polaris quoting service.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/config"
)

// Server is the HTTP API server. It owns no quoting state of its own;
// every request reads the current catalog from the store and runs the
// full pipeline against it.
type Server struct {
	config       *config.ServerConfig
	store        *catalog.Store
	metrics      *Metrics
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server over the given catalog store.
func NewServer(cfg *config.ServerConfig, store *catalog.Store) *Server {
	return &Server{
		config:       cfg,
		store:        store,
		metrics:      NewMetrics(),
		shutdownChan: make(chan struct{}),
		isRunning:    false,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server",
			"address", s.config.ListenAddress,
			"catalog", s.store.Path(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
		return s.Shutdown(ctx)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
		return s.Shutdown(context.Background())
	case <-s.shutdownChan:
		return nil
	}
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests up to the configured write timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		close(s.shutdownChan)
		slog.Info("server shutdown complete")
	})

	return shutdownErr
}

// setupRoutes builds the route mux and wraps it in the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/quote", s.handleQuote)
	mux.HandleFunc("POST /api/policy/contract", s.handleContract)
	mux.HandleFunc("POST /api/policy/pdf", s.handlePDF)

	// Middleware order matters: request IDs are assigned before logging
	// so every log line carries one, and recovery is outermost so it
	// catches panics from the whole chain.
	var handler http.Handler = mux
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(handler)

	return handler
}
