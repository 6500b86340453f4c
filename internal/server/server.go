// Package server exposes the UF rate service over HTTP. Routes are mounted
// under /api/uf with CORS scoped to /api, matching what the web client
// expects from the backend.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/valoruf/valoruf/internal/rates"
)

// RateService is the surface the HTTP handlers consume.
type RateService interface {
	Value(ctx context.Context, date string) (rates.Result, error)
	Range(ctx context.Context, start, end string) ([]rates.Result, error)
	Cached(ctx context.Context) ([]rates.Result, error)
	CacheSize(ctx context.Context) (int, error)
	Stats() rates.Stats
}

// Server wires the rate service into an HTTP API.
type Server struct {
	svc           RateService
	allowedOrigin string
}

// New creates a Server. allowedOrigin is the CORS origin for /api routes;
// "*" allows any.
func New(svc RateService, allowedOrigin string) *Server {
	return &Server{
		svc:           svc,
		allowedOrigin: allowedOrigin,
	}
}

// Router builds the route tree. Static routes (/cached, /stats) take
// precedence over the date parameters.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{s.allowedOrigin},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))

		api.Route("/uf", func(uf chi.Router) {
			uf.Get("/cached", s.handleCached)
			uf.Get("/stats", s.handleStats)
			uf.Get("/{date}", s.handleValue)
			uf.Get("/{start}/{end}", s.handleRange)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
