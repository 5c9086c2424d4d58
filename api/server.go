/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the wizard frontend

ROUTE GROUPS:
  /api/worktime, /api/wage, /api/probation,
  /api/eligibility, /api/contracts   Calculations (stateless)
  /api/rates/*                       Statutory rate versions
  /api/drafts/*                      Wizard-step draft cache
  /healthz                           Liveness
  /metrics                           Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. The calculation endpoints hold no personal
  data; PUT /api/rates should sit behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured. gatherer backs
// /metrics; pass prometheus.DefaultGatherer in production.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/worktime/normalize", h.Normalize)

		// Wage routes
		r.Route("/wage", func(r chi.Router) {
			r.Post("/decompose", h.Decompose)
			r.Post("/minimum", h.Minimum)
			r.Post("/check", h.Check)
		})

		r.Post("/probation/evaluate", h.EvaluateProbation)
		r.Post("/eligibility", h.Eligibility)
		r.Post("/contracts/assess", h.Assess)

		// Rates routes
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Put("/", h.PutRates)
			r.Get("/current", h.CurrentRates)
		})

		// Draft routes
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.CreateDraft)
			r.Get("/{session}", h.GetDraft)
			r.Delete("/{session}", h.DeleteDraft)
			r.Post("/{session}/assess", h.AssessDraft)
			r.Put("/{session}/{step}", h.PutDraftStep)
			r.Get("/{session}/{step}", h.GetDraftStep)
		})
	})

	return r
}
