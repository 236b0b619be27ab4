// Package server implements the HTTP API, middleware, and request
// handlers exposing the query pipeline.
package server

import (
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sampstat/sampstat/assets"
	"github.com/sampstat/sampstat/internal/config"
	"github.com/sampstat/sampstat/internal/query"
)

// New creates a Server around the query service with the provided
// configuration.
func New(svc *query.Service, cfg *config.Config) *Server {
	origins := make(map[uint64]struct{})
	allowAny := false
	for _, origin := range cfg.Server.Origins {
		if origin == "*" {
			allowAny = true
			continue
		}
		origins[xxhash.Sum64String(origin)] = struct{}{}
	}

	return &Server{
		svc:            svc,
		allowedOrigins: origins,
		allowAnyOrigin: allowAny,
		trustProxy:     cfg.Server.TrustProxy,
		limitCount:     cfg.RateLimit.Count,
		limitWindow:    cfg.RateLimit.Window,
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/server", s.RateLimitMiddleware(http.HandlerFunc(s.handleServer)))
	mux.Handle("GET /api/servers", s.RateLimitMiddleware(http.HandlerFunc(s.handleServers)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	mux.Handle("GET /metrics", promhttp.Handler())

	fileServer := http.FileServer(assets.GetFileSystem())
	mux.Handle("GET /favicon.ico", fileServer)

	mux.Handle("GET /", http.HandlerFunc(s.handleIndex))

	return s.LoggingMiddleware(s.CORSMiddleware(mux))
}
