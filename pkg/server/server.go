// Package server serves rendered configuration documents over HTTP.
// Every request loads a document from the storage root, evaluates it
// with a fresh function registry, and streams the projected output
// back as a file attachment.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theMackabu/ship/pkg/config"
	"github.com/theMackabu/ship/pkg/logging"
	"github.com/theMackabu/ship/pkg/secret"
)

// Server renders documents from a storage root. Construct with New;
// the zero value is not usable.
type Server struct {
	settings config.Settings
	log      *slog.Logger
	secrets  *secret.Client
	version  string

	httpServer *http.Server
	mu         sync.Mutex
	running    bool
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithVersion sets the version string documents see as engine.pkg.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithSecrets overrides the secret backend client, replacing the one
// derived from settings. Useful in tests.
func WithSecrets(client *secret.Client) Option {
	return func(s *Server) {
		s.secrets = client
	}
}

// New creates a Server for the given settings.
func New(settings config.Settings, opts ...Option) *Server {
	s := &Server{
		settings: settings,
		log:      logging.Nop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.secrets == nil && settings.VaultURL != "" {
		s.secrets = secret.New(settings.VaultURL, settings.VaultToken, nil)
	}
	return s
}

// Handler returns the full request handler, including logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRender)
	return s.logRequests(mux)
}

// Start begins serving on the configured listen address. It returns
// once the listener goroutine is launched.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.settings.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.log.Info("starting HTTP server", "listen", s.settings.Listen, "storage", s.settings.Storage)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.running = false
	s.log.Info("server stopped")
	return err
}

// IsRunning reports whether Start has been called without a matching
// Stop.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		s.log.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
