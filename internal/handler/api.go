package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/domain"
)

// Wire types for the JSON API. They mirror the schemas in api/openapi.yaml;
// keep both in step.

// ErrorResponse is the body of every non-2xx response. Error is shown to
// the operator verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// DepartureRequest is the body of POST /api/departures. A null or absent
// departureTime means now.
type DepartureRequest struct {
	Vehicle       string  `json:"vehicle" validate:"required"`
	Driver        string  `json:"driver" validate:"required"`
	Requester     string  `json:"requester" validate:"max=120"`
	Route         string  `json:"route" validate:"max=200"`
	DepartureTime *string `json:"departureTime"`
}

// ArrivalRequest is the body of POST /api/arrivals.
type ArrivalRequest struct {
	Vehicle     string   `json:"vehicle" validate:"required"`
	ArrivalTime *string  `json:"arrivalTime"`
	Liters      *float64 `json:"liters" validate:"omitempty,gt=0"`
	Odometer    *int     `json:"odometer" validate:"omitempty,gte=0"`
}

// CancelRequest is the body of POST /api/trips/cancel.
type CancelRequest struct {
	Vehicle string `json:"vehicle" validate:"required"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string         `json:"message"`
	Trip    *domain.Trip   `json:"trip,omitempty"`
	Refuel  *domain.Refuel `json:"refuel,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TripPage is the body of GET /api/trips.
type TripPage struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// ExportRow is one row of GET /api/trips/export in JSON form.
type ExportRow struct {
	TripID          uuid.UUID         `json:"tripId"`
	Vehicle         string            `json:"vehicle"`
	Driver          string            `json:"driver"`
	Requester       string            `json:"requester"`
	Route           string            `json:"route"`
	Status          domain.TripStatus `json:"status"`
	DepartureTime   string            `json:"departureTime"`
	DepartedAt      time.Time         `json:"departedAt"`
	ArrivalTime     *string           `json:"arrivalTime,omitempty"`
	ArrivedAt       *time.Time        `json:"arrivedAt,omitempty"`
	DurationMinutes *int              `json:"durationMinutes,omitempty"`
}

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	Csv  ExportFormat = "csv"
	Json ExportFormat = "json"
)

// ListTripsParams are the query parameters of GET /api/trips.
type ListTripsParams struct {
	Page  *int
	Limit *int
}

// ExportParams are the query parameters of GET /api/trips/export.
type ExportParams struct {
	Format *ExportFormat
}

// ListAuditParams are the query parameters of GET /api/audit-logs.
type ListAuditParams struct {
	Limit *int
}
