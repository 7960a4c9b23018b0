// Package api exposes the priority engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *PriorityHandler
	deps    ServerDeps
	limiter *rateLimiter
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RateLimitPerMin int
}

// ServerDeps are the optional collaborators of the server.
type ServerDeps struct {
	Health         *observability.HealthRegistry
	MetricsHandler http.Handler
	Metrics        observability.Metrics
	Logger         *slog.Logger
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            "0.0.0.0:8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		RateLimitPerMin: 120,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handler *PriorityHandler, deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.Health == nil {
		deps.Health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  deps.Logger,
		handler: handler,
		deps:    deps,
		limiter: newRateLimiter(cfg.RateLimitPerMin),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		s.mux.Handle("GET /metrics", s.deps.MetricsHandler)
	}

	s.mux.Handle("POST /api/v1/prioritize", s.api("prioritize", s.handler.Prioritize))
	s.mux.Handle("POST /api/v1/score", s.api("score", s.handler.Score))
	s.mux.Handle("POST /api/v1/explain", s.api("explain", s.handler.Explain))
}

// api wraps a v1 endpoint with request IDs, rate limiting and request metrics.
func (s *Server) api(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(observability.CorrelationIDHeader))
		w.Header().Set(observability.CorrelationIDHeader, observability.CorrelationIDFromContext(ctx))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			s.deps.Metrics.Counter(observability.MetricHTTPRequests, 1,
				observability.T("route", route),
				observability.T("status", http.StatusText(rec.status)),
			)
		}()

		client := clientIP(r)
		if retryAfter, ok := s.limiter.Allow(client); !ok {
			s.deps.Metrics.Counter(observability.MetricHTTPRateLimited, 1, observability.T("route", route))
			rec.Header().Set("Retry-After", retryAfter)
			writeError(rec, ErrRateLimited)
			return
		}

		r.Body = http.MaxBytesReader(rec, r.Body, maxBodyBytes)
		h(rec, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.deps.Health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting tasktuner API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down tasktuner API server")
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
