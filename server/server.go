// Package server is the gateway's HTTP surface: the GraphQL endpoint, the
// health and seed REST endpoints, metrics, and the middleware stack in front
// of them.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"

	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/errors"
	"github.com/3a-softwares/E-Storefront-Services/graphql"
	"github.com/3a-softwares/E-Storefront-Services/health"
	"github.com/3a-softwares/E-Storefront-Services/metric"
	"github.com/3a-softwares/E-Storefront-Services/seed"
)

// Seeder is the slice of the seed orchestrator the REST endpoints need.
type Seeder interface {
	Run(ctx context.Context, preserveUsers bool) (seed.Stats, error)
	Clear(ctx context.Context) (seed.Stats, error)
	DatabaseStatus(ctx context.Context) (*seed.Status, error)
}

// Server manages the gateway's HTTP server and its lifecycle.
type Server struct {
	cfg      *config.Config
	engine   *graphql.Engine
	checker  *health.Checker
	seeder   Seeder
	registry *metric.Registry
	logger   *slog.Logger

	httpServer *http.Server
	mux        *http.ServeMux
	handler    http.Handler
	started    time.Time

	// Lifecycle
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates the gateway server. seeder and registry may be nil; the
// corresponding endpoints then report unavailable.
func New(cfg *config.Config, engine *graphql.Engine, checker *health.Checker, seeder Seeder, registry *metric.Registry, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Server", "New", "config is required")
	}
	if engine == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("engine is nil"), "Server", "New", "graphql engine is required")
	}
	if checker == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("checker is nil"), "Server", "New", "health checker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:      cfg,
		engine:   engine,
		checker:  checker,
		seeder:   seeder,
		registry: registry,
		logger:   logger.With("component", "server"),
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
		started:  time.Now(),
	}, nil
}

// Setup configures routes and the middleware stack. Must be called once
// before Start.
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gql, err := s.engine.Handler()
	if err != nil {
		return errors.WrapInvalid(err, "Server", "Setup", "parse graphql schema")
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleSelfHealth)
	s.mux.HandleFunc("GET /api/health/services", s.handleServicesHealth)
	s.mux.HandleFunc("GET /api/health/services/{service}", s.handleServiceHealth)

	s.mux.HandleFunc("POST /api/seed", s.requireAdmin(s.handleSeed))
	s.mux.HandleFunc("POST /api/seed/clear", s.requireAdmin(s.handleSeedClear))
	s.mux.HandleFunc("GET /api/seed/status", s.requireAdmin(s.handleSeedStatus))

	s.mux.Handle("POST /graphql", gql)
	if s.cfg.EnablePlayground {
		s.mux.Handle("GET /playground", playground.Handler("E-Storefront GraphQL", "/graphql"))
		s.logger.Info("GraphQL playground enabled", "path", "/playground")
	}
	if s.registry != nil {
		s.mux.Handle("GET /metrics", s.registry.Handler())
	}

	// CORS sits outermost so preflights never reach the mux.
	s.handler = s.corsMiddleware(s.identityMiddleware(s.loggingMiddleware(s.mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("server configured",
		"port", s.cfg.Port,
		"environment", s.cfg.Environment,
		"services", s.cfg.Services.Len())
	return nil
}

// Handler returns the fully wrapped handler. Setup must have run.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

// Start runs the HTTP server until ctx is cancelled, Stop is called, or the
// listener fails. The ready channel is closed when the server starts
// accepting connections.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapInternal(errors.ErrAlreadyStarted, "Server", "Start", "server already running")
	}
	if s.httpServer == nil {
		s.mu.Unlock()
		return errors.WrapInvalid(fmt.Errorf("setup not called"), "Server", "Start", "server not configured")
	}
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("server starting", "address", server.Addr)

		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("server stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return errors.WrapInternal(err, "Server", "Start", "http server failed")
	}
}

// Stop gracefully shuts down the HTTP server. Safe to call more than once.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
		return errors.WrapUnavailable(err, "Server", "Stop", "graceful shutdown")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("server stopped")
	return nil
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
