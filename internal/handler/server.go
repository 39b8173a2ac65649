// Package handler implements the HTTP handlers for the Frotalog store API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	InProgress(ctx context.Context) ([]domain.InProgressTrip, error)
	Depart(ctx context.Context, c domain.TripCandidate) (domain.Trip, error)
	Arrive(ctx context.Context, a domain.Arrival) (domain.Trip, *domain.Refuel, error)
	Cancel(ctx context.Context, vehicle string) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// AuditServicer defines the audit log read.
type AuditServicer interface {
	Recent(ctx context.Context, limit *int) ([]domain.AuditEntry, error)
}

// Server implements every API endpoint. Wire it in main.go via Handler.
type Server struct {
	trips    TripServicer
	export   ExportServicer
	audit    AuditServicer
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies. log may be nil.
func NewServer(trips TripServicer, export ExportServicer, audit AuditServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:    trips,
		export:   export,
		audit:    audit,
		validate: newValidator(),
		log:      log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// newValidator reports fields by their JSON names so messages can be keyed
// on what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
