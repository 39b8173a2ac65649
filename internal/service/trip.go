// Package service contains the business logic for the Frotalog store.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/events"
	"github.com/frotalog/frotalog/internal/guard"
	"github.com/frotalog/frotalog/internal/identity"
	"github.com/frotalog/frotalog/internal/metrics"
	"github.com/frotalog/frotalog/internal/repo"
)

// EventPublisher announces trip lifecycle changes. *events.Publisher
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, e events.TripEvent) error
}

// TripService implements business logic for departures, arrivals and
// cancellations. It is also the store-side guard.TripLister.
type TripService struct {
	tx     repo.Transactor
	trips  repo.TripRepo
	fleet  repo.FleetRepo
	events EventPublisher
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

// Option customizes a TripService.
type Option func(*TripService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TripService) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *TripService) { s.log = log }
}

// WithLocation sets the time zone "HH:MM" values are read in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *TripService) { s.loc = loc }
}

// NewTripService constructs a TripService. rs supplies the repositories
// used outside transactions; tx runs departures atomically. pub may be nil.
func NewTripService(tx repo.Transactor, rs repo.Repos, pub EventPublisher, opts ...Option) *TripService {
	s := &TripService{
		tx:     tx,
		trips:  rs.Trips,
		fleet:  rs.Fleet,
		events: pub,
		loc:    time.UTC,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ guard.TripLister = (*TripService)(nil)

// InProgress returns the open trips as the read-only view the duplicate
// check compares against.
func (s *TripService) InProgress(ctx context.Context) ([]domain.InProgressTrip, error) {
	trips, err := s.trips.ListInProgress(ctx)
	if err != nil {
		return nil, &domain.LookupError{Err: fmt.Errorf("service.TripService.InProgress: %w", err)}
	}

	views := make([]domain.InProgressTrip, len(trips))
	for i, t := range trips {
		views[i] = t.InProgressView()
	}
	metrics.InProgressTrips.Set(float64(len(views)))
	return views, nil
}

// Depart registers a departure. A vehicle already out is refused with a
// *domain.ConflictError; a driver already out is accepted, since the
// operator confirmed it before submitting.
func (s *TripService) Depart(ctx context.Context, c domain.TripCandidate) (domain.Trip, error) {
	plate := identity.NormalizePlate(c.Vehicle)
	if plate == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w",
			domain.NewValidationError("vehicle", "Informe a placa do veículo."))
	}
	driver := identity.TitleCase(c.Driver)
	if driver == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w",
			domain.NewValidationError("driver", "Informe o nome do motorista."))
	}

	check, err := guard.New(s).Check(ctx, domain.TripCandidate{Vehicle: plate, Driver: driver})
	if err != nil {
		metrics.TripEvents.WithLabelValues("departure", "error").Inc()
		return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w", err)
	}
	switch check.Kind {
	case domain.CheckVehicleConflict:
		metrics.TripEvents.WithLabelValues("departure", "conflict").Inc()
		return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w", vehicleOut(plate, check.Conflict))
	case domain.CheckDriverConflict:
		s.log.InfoContext(ctx, "departure for driver already out",
			"driver", driver, "vehicle", plate, "other_vehicle", check.Conflict.Vehicle)
	}

	display, at := resolveClock(strings.TrimSpace(c.DepartureTime), s.now(), s.loc)
	trip := domain.Trip{
		Vehicle:       plate,
		Driver:        driver,
		Requester:     identity.TitleCase(c.Requester),
		Route:         identity.TitleCase(c.Route),
		DepartureTime: display,
		DepartedAt:    at,
	}

	var created domain.Trip
	err = s.tx.InTx(ctx, func(rs repo.Repos) error {
		var err error
		created, err = rs.Trips.CreateDeparture(ctx, trip)
		if err != nil {
			return err
		}
		return rs.Fleet.CountDeparture(ctx, driver, plate)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Another console got there between the check and the insert.
			metrics.TripEvents.WithLabelValues("departure", "conflict").Inc()
			return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w", vehicleOut(plate, domain.InProgressTrip{}))
		}
		metrics.TripEvents.WithLabelValues("departure", "error").Inc()
		return domain.Trip{}, fmt.Errorf("service.TripService.Depart: %w", err)
	}

	metrics.TripEvents.WithLabelValues("departure", "ok").Inc()
	s.publish(ctx, events.TripEvent{
		Event:   domain.AuditDeparture,
		TripID:  created.ID,
		Vehicle: created.Vehicle,
		Driver:  created.Driver,
		Detail:  departureDetail(created),
		At:      created.DepartedAt,
	})
	return created, nil
}

// Arrive closes the vehicle's open trip. When liters or odometer are given a
// refuel is recorded too; a failed refuel write is logged and does not undo
// the arrival, and the returned refuel is then nil.
func (s *TripService) Arrive(ctx context.Context, a domain.Arrival) (domain.Trip, *domain.Refuel, error) {
	plate := identity.NormalizePlate(a.Vehicle)
	if plate == "" {
		return domain.Trip{}, nil, fmt.Errorf("service.TripService.Arrive: %w",
			domain.NewValidationError("vehicle", "Informe a placa do veículo."))
	}
	if a.Liters != nil && *a.Liters <= 0 {
		return domain.Trip{}, nil, fmt.Errorf("service.TripService.Arrive: %w",
			domain.NewValidationError("liters", "Valor inválido para litros."))
	}
	if a.Odometer != nil && *a.Odometer < 0 {
		return domain.Trip{}, nil, fmt.Errorf("service.TripService.Arrive: %w",
			domain.NewValidationError("odometer", "Valor inválido para odômetro."))
	}

	display, at := resolveClock(strings.TrimSpace(a.ArrivalTime), s.now(), s.loc)
	finished, err := s.trips.FinishInProgress(ctx, plate, display, at)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrNotFound) {
			status = "not_found"
		}
		metrics.TripEvents.WithLabelValues("arrival", status).Inc()
		return domain.Trip{}, nil, fmt.Errorf("service.TripService.Arrive: %w", err)
	}
	metrics.TripEvents.WithLabelValues("arrival", "ok").Inc()

	var refuel *domain.Refuel
	if a.Liters != nil || a.Odometer != nil {
		r, err := s.fleet.RecordRefuel(ctx, finished.ID, domain.Refuel{
			Vehicle:    finished.Vehicle,
			Driver:     finished.Driver,
			Liters:     a.Liters,
			Odometer:   a.Odometer,
			RecordedAt: at,
		})
		if err != nil {
			s.log.ErrorContext(ctx, "refuel not recorded", "vehicle", plate, "error", err)
		} else {
			refuel = &r
		}
	}

	s.publish(ctx, events.TripEvent{
		Event:   domain.AuditArrival,
		TripID:  finished.ID,
		Vehicle: finished.Vehicle,
		Driver:  finished.Driver,
		Detail:  arrivalDetail(finished, refuel),
		At:      at,
	})
	return finished, refuel, nil
}

// Cancel deletes the vehicle's latest open trip, undoing a departure
// registered by mistake.
func (s *TripService) Cancel(ctx context.Context, vehicle string) (domain.Trip, error) {
	plate := identity.NormalizePlate(vehicle)
	if plate == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Cancel: %w",
			domain.NewValidationError("vehicle", "Informe a placa do veículo."))
	}

	deleted, err := s.trips.DeleteLatestInProgress(ctx, plate)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrNotFound) {
			status = "not_found"
		}
		metrics.TripEvents.WithLabelValues("cancel", status).Inc()
		return domain.Trip{}, fmt.Errorf("service.TripService.Cancel: %w", err)
	}
	metrics.TripEvents.WithLabelValues("cancel", "ok").Inc()

	s.publish(ctx, events.TripEvent{
		Event:   domain.AuditCancel,
		TripID:  deleted.ID,
		Vehicle: deleted.Vehicle,
		Driver:  deleted.Driver,
		Detail:  "saída " + deleted.DepartureTime + " cancelada",
		At:      s.now(),
	})
	return deleted, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// ListPaged returns one page of the trip history, open trips first.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	return trips, total, nil
}

func (s *TripService) publish(ctx context.Context, e events.TripEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WarnContext(ctx, "trip event not published", "event", e.Event, "vehicle", e.Vehicle, "error", err)
	}
}

func vehicleOut(plate string, conflict domain.InProgressTrip) *domain.ConflictError {
	return &domain.ConflictError{
		Message: fmt.Sprintf("O veículo %s já está em curso e não pode sair novamente.", plate),
		Trip:    conflict,
	}
}

func departureDetail(t domain.Trip) string {
	parts := []string{"saída " + t.DepartureTime}
	if t.Route != "" {
		parts = append(parts, "trajeto "+t.Route)
	}
	if t.Requester != "" {
		parts = append(parts, "solicitante "+t.Requester)
	}
	return strings.Join(parts, "; ")
}

func arrivalDetail(t domain.Trip, r *domain.Refuel) string {
	detail := "chegada " + t.ArrivalTime
	if r == nil {
		return detail
	}
	if r.Liters != nil {
		detail += fmt.Sprintf("; %.2f L", *r.Liters)
	}
	if r.Odometer != nil {
		detail += fmt.Sprintf("; odômetro %d", *r.Odometer)
	}
	return detail
}
