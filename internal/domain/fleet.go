package domain

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus tells whether a driver went through accreditation.
type DriverStatus string

const (
	DriverAccredited    DriverStatus = "accredited"
	DriverNotAccredited DriverStatus = "not_accredited"
)

// Driver is a registry entry kept up to date by departures.
// Drivers first seen on a departure are registered as not accredited.
type Driver struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Status     DriverStatus `json:"status"`
	TotalTrips int          `json:"totalTrips"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Vehicle is a registry entry kept up to date by departures and refuels.
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	TotalTrips   int       `json:"totalTrips"`
	LastOdometer *int      `json:"lastOdometer,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
