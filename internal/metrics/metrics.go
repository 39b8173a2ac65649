// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// DuplicateChecks counts duplicate checks by outcome:
	// allowed, vehicle_conflict, driver_conflict or lookup_error.
	DuplicateChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frotalog_duplicate_checks_total",
			Help: "Duplicate-trip checks by result.",
		},
		[]string{"result"},
	)

	// TripEvents counts store writes by kind (departure, arrival, cancel)
	// and status (ok, conflict, not_found, error).
	TripEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frotalog_trip_events_total",
			Help: "Trip store writes by kind and status.",
		},
		[]string{"kind", "status"},
	)

	// InProgressTrips is the number of open trips seen by the last
	// in-progress read on the store.
	InProgressTrips = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "frotalog_in_progress_trips",
			Help: "Open trips at the last in-progress read.",
		},
	)
)

func init() {
	prometheus.MustRegister(DuplicateChecks)
	prometheus.MustRegister(TripEvents)
	prometheus.MustRegister(InProgressTrips)
}
