// Package api serves the stored season tables over a read-only JSON API.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/pable/go-football-metrics/internal/metrics"
)

// Options configure NewRouter.
type Options struct {
	AllowedOrigins []string
	Defaults       Defaults
	// Metrics, when set, records requests and serves GET /metrics.
	Metrics *metrics.Manager
}

// NewRouter creates the chi router with all middleware and routes.
func NewRouter(store Store, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(ObserveMiddleware(opts.Metrics))
	r.Use(middleware.Compress(5))

	c := corslib.New(corslib.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	h := NewHandler(store, opts.Defaults)

	r.Get("/health", h.HealthCheck)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", h.ListRuns)
		r.Get("/players", h.ListPlayers)
		r.Get("/players/{name}", h.GetPlayer)
		r.Get("/leaders/{metric}", h.GetLeaders)
		r.Get("/summary", h.GetSummary)
		r.Get("/teams", h.GetTeams)
		r.Get("/similar/{name}", h.GetSimilar)
	})

	return r
}
