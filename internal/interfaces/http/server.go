// Package http wires the read-only query surface: router, middleware
// chain, rate limiter.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/LionartBR/testa-de-ferro/internal/interfaces/http/handlers"
	"github.com/LionartBR/testa-de-ferro/internal/metrics"
)

// ServerConfig holds the boot-time HTTP settings.
type ServerConfig struct {
	Host            string
	Port            int
	RequestDeadline time.Duration
	RateLimitCap    int
	RateLimitWindow time.Duration
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerConfig returns the defaults the original service shipped
// with.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "127.0.0.1",
		Port:            8000,
		RequestDeadline: 10 * time.Second,
		RateLimitCap:    60,
		RateLimitWindow: 60 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
	}
}

// Server is the HTTP front of the service.
type Server struct {
	server *http.Server
	config ServerConfig
}

// NewServer builds the full chain explicitly: handlers into routes, routes
// into middleware, middleware into the listener. Outermost-in: request id,
// logging+metrics, security headers, rate limit, CORS, deadline.
func NewServer(cfg ServerConfig, h *handlers.Handlers, collector *metrics.Collector) *Server {
	router := mux.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware(collector))
	router.Use(securityHeadersMiddleware)

	limiter := NewRateLimiter(cfg.RateLimitCap, cfg.RateLimitWindow, nil)
	router.Use(limiter.Middleware)

	router.Use(timeoutMiddleware(cfg.RequestDeadline))

	registerRoutes(router, h, collector)

	// CORS wraps the router so preflight answers carry the allow-list too.
	// Never a wildcard: only configured origins pass.
	corsWrapper := gorilla.CORS(
		gorilla.AllowedOrigins(cfg.AllowedOrigins),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		gorilla.AllowedHeaders([]string{"Content-Type", apiKeyHeader}),
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      corsWrapper(router),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
	}
}

// registerRoutes wires the /api surface. Static paths are registered before
// dynamic captures on overlapping prefixes: /suppliers/ranking must come
// before /suppliers/{id}.
func registerRoutes(router *mux.Router, h *handlers.Handlers, collector *metrics.Collector) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/suppliers/ranking", h.Ranking).Methods(http.MethodGet)
	api.HandleFunc("/suppliers/{id}", h.Supplier).Methods(http.MethodGet)
	api.HandleFunc("/suppliers/{id}/graph", h.Graph).Methods(http.MethodGet)
	api.HandleFunc("/suppliers/{id}/export", h.Export).Methods(http.MethodGet)
	api.HandleFunc("/alerts", h.Alerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts/{kind}", h.Alerts).Methods(http.MethodGet)
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	api.HandleFunc("/contracts", h.Contracts).Methods(http.MethodGet)
	api.HandleFunc("/orgs/{orgCode}/dashboard", h.OrgDashboard).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)
}

// Start blocks serving requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

// Router exposes the fully wired handler for tests.
func (s *Server) Router() http.Handler {
	return s.server.Handler
}
