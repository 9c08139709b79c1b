package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lennartvoss/geocluster/pkg/api/rest/middleware"
	"github.com/lennartvoss/geocluster/pkg/config"
	"github.com/lennartvoss/geocluster/pkg/dataset"
	"github.com/lennartvoss/geocluster/pkg/observability"
	"github.com/lennartvoss/geocluster/pkg/resultcache"
)

// ServerConfig holds the REST server configuration, layered directly from
// the application config instead of a separate ad-hoc struct.
type ServerConfig struct {
	Host        string
	Port        int
	CORSEnabled bool
	CORSOrigins []string
	Auth        middleware.AuthConfig
	RateLimit   middleware.RateLimitConfig
}

// Server represents the REST API server.
type Server struct {
	config     ServerConfig
	handler    *Handler
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *observability.Logger
	access     *observability.AccessLogger
}

// NewServer creates a new REST API server backed directly by a dataset
// manager — there is no separate clustering service to dial.
func NewServer(serverCfg ServerConfig, cfg *config.Config, datasets *dataset.Manager, cache *resultcache.LRUCache, metrics *observability.Metrics) *Server {
	handler := NewHandler(datasets, cache, metrics, cfg)

	logger := observability.NewDefaultLogger()
	server := &Server{
		config:  serverCfg,
		handler: handler,
		mux:     http.NewServeMux(),
		logger:  logger,
		access:  observability.NewAccessLogger(logger),
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.Port),
		Handler:      server.withMiddleware(server.mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/v1/health", s.handler.HealthCheck)
	s.mux.HandleFunc("/v1/metrics", promhttp.Handler().ServeHTTP)

	s.mux.HandleFunc("/v1/datasets", s.routeDatasets)
	s.mux.HandleFunc("/v1/datasets/", s.handler.routeDatasetSubpath)
}

// routeDatasets handles /v1/datasets.
func (s *Server) routeDatasets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handler.CreateDataset(w, r)
	case http.MethodGet:
		s.handler.ListDatasets(w, r)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// withMiddleware wraps the handler with logging, CORS, rate limiting and
// auth, in that wrapping order — auth is outermost and sees every request
// first, then rate limiting and CORS, and logging runs closest to the mux.
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	handler = s.loggingMiddleware(handler)

	if s.config.CORSEnabled {
		handler = corsMiddleware(s.config.CORSOrigins)(handler)
	}

	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit)
	handler = middleware.RateLimitMiddleware(rateLimiter)(handler)

	handler = middleware.AuthMiddleware(s.config.Auth)(handler)

	return handler
}

// Start starts the REST API server.
func (s *Server) Start() error {
	s.logger.Infof("starting REST API server on %s:%d", s.config.Host, s.config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down REST API server")
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		s.access.LogAccess(r.Method, r.URL.Path, fmt.Sprintf("%d", wrapped.statusCode), time.Since(start), nil)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware adds CORS headers.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				allowed = true
				origin = "*"
			} else {
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
