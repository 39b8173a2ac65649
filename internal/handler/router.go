package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frotalog/frotalog/api"
)

// Handler mounts every route of s on a chi router. writeMiddlewares wrap
// only the write endpoints (rate limiting, body size).
func Handler(s *Server, writeMiddlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/trips/in-progress", s.ListInProgress)
		r.Get("/trips/export", s.GetExport)
		r.Get("/trips/{id}", s.GetTrip)
		r.Get("/trips", s.ListTrips)
		r.Get("/audit-logs", s.ListAuditLogs)

		r.Group(func(r chi.Router) {
			r.Use(writeMiddlewares...)
			r.Post("/departures", s.CreateDeparture)
			r.Post("/arrivals", s.CreateArrival)
			r.Post("/trips/cancel", s.CancelTrip)
		})
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
