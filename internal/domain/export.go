package domain

import "time"

// ExportRow is a single row in the trip history export.
// It is a flat view of a trip; Duration is zero while the trip is in progress.
type ExportRow struct {
	TripID        string
	Vehicle       string
	Driver        string
	Requester     string
	Route         string
	Status        TripStatus
	DepartureTime string
	DepartedAt    time.Time
	ArrivalTime   string     // empty while in progress
	ArrivedAt     *time.Time // nil while in progress
	Duration      time.Duration
}
