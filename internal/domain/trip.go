// Package domain contains the core data types for the Frotalog fleet back-office.
// It is imported by every other internal package (identity, guard, checkout,
// repo, service, handler) and depends on nothing but uuid.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a stored trip.
type TripStatus string

const (
	// TripInProgress marks a trip whose departure was recorded but whose
	// arrival was not.
	TripInProgress TripStatus = "in_progress"
	// TripFinished marks a trip with both departure and arrival recorded.
	TripFinished TripStatus = "finished"
)

// Trip is a stored vehicle checkout, from departure ("saída") to arrival
// ("chegada"). ArrivedAt is nil while the trip is in progress.
type Trip struct {
	ID            uuid.UUID  `json:"id"`
	Vehicle       string     `json:"vehicle"`
	Driver        string     `json:"driver"`
	Requester     string     `json:"requester"`
	Route         string     `json:"route"`
	Status        TripStatus `json:"status"`
	DepartureTime string     `json:"departureTime"` // "15:04" in local time
	DepartedAt    time.Time  `json:"departedAt"`
	ArrivalTime   string     `json:"arrivalTime,omitempty"`
	ArrivedAt     *time.Time `json:"arrivedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// InProgress reports whether the trip is still open.
func (t Trip) InProgress() bool {
	return t.Status == TripInProgress
}

// InProgressTrip is the read-only view of an open trip that the duplicate
// check compares against. The store owns the record; callers only ever
// hold a snapshot.
type InProgressTrip struct {
	ID                   uuid.UUID `json:"id"`
	Vehicle              string    `json:"vehicle"`
	Driver               string    `json:"driver"`
	DepartureTimeDisplay string    `json:"departureTimeDisplay"`
}

// InProgressView projects a stored trip to the shape served by the
// in-progress endpoint.
func (t Trip) InProgressView() InProgressTrip {
	return InProgressTrip{
		ID:                   t.ID,
		Vehicle:              t.Vehicle,
		Driver:               t.Driver,
		DepartureTimeDisplay: t.DepartureTime,
	}
}

// Arrival carries the fields of an arrival registration.
// Liters and Odometer are optional; when either is set a refuel is recorded.
type Arrival struct {
	Vehicle     string
	ArrivalTime string // "15:04" or empty for now
	Liters      *float64
	Odometer    *int
}

// Refuel is a fuel/odometer reading taken when a vehicle arrives.
type Refuel struct {
	ID         uuid.UUID `json:"id"`
	Vehicle    string    `json:"vehicle"`
	Driver     string    `json:"driver"`
	Liters     *float64  `json:"liters,omitempty"`
	Odometer   *int      `json:"odometer,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}
