package handler

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
}

// NewRouter builds the chi router with the global middleware stack and all
// API routes. Queries and single-conference reads are public; everything
// else needs a bearer token.
func NewRouter(h *ConferenceHandler, verifier IdentityVerifier, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Metrics)
	r.Use(Logger)
	r.Use(CORS)

	r.Get("/health", HealthCheck)
	if opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, promhttp.Handler())
	}

	r.Route("/conferences", func(r chi.Router) {
		r.Post("/query", h.QueryConferences)
		r.Get("/{key}", h.GetConference)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(verifier))
			r.Post("/", h.CreateConference)
			r.Get("/created", h.ListCreated)
			r.Get("/attending", h.ListAttending)
			r.Put("/{key}", h.UpdateConference)
			r.Post("/{key}/registration", h.Register)
			r.Delete("/{key}/registration", h.Unregister)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(verifier))
		r.Get("/profile", h.GetProfile)
		r.Post("/profile", h.SaveProfile)
	})

	return r
}
