package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/identity"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// CreateDeparture inserts a new in-progress trip and returns the persisted
	// record. Returns domain.ErrConflict if the vehicle already has an open trip.
	CreateDeparture(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// ListInProgress returns every open trip ordered by departure, oldest first.
	ListInProgress(ctx context.Context) ([]domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips, open trips first and then the most
	// recent departures, plus the total number of trips.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListAll returns every trip in the same order as ListPaged.
	ListAll(ctx context.Context) ([]domain.Trip, error)

	// FinishInProgress records the arrival on the vehicle's latest open trip.
	// Returns domain.ErrNotFound if the vehicle has no open trip.
	FinishInProgress(ctx context.Context, plate, arrivalTime string, arrivedAt time.Time) (domain.Trip, error)

	// DeleteLatestInProgress removes the vehicle's latest open trip and
	// returns it. Returns domain.ErrNotFound if there is none.
	DeleteLatestInProgress(ctx context.Context, plate string) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, vehicle, driver, requester, route, status,
	departure_time, departed_at, arrival_time, arrived_at, created_at, updated_at`

// CreateDeparture inserts the trip with its comparison keys. The partial
// unique index on open trips turns a racing second departure into
// domain.ErrConflict.
func (r *pgTripRepo) CreateDeparture(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle, vehicle_key, driver, driver_key, requester, route,
		                   status, departure_time, departed_at)
		VALUES (@vehicle, @vehicle_key, @driver, @driver_key, @requester, @route,
		        'in_progress', @departure_time, @departed_at)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"vehicle":        trip.Vehicle,
		"vehicle_key":    identity.NormalizePlate(trip.Vehicle),
		"driver":         trip.Driver,
		"driver_key":     identity.NormalizeDriverName(trip.Driver),
		"requester":      trip.Requester,
		"route":          trip.Route,
		"departure_time": trip.DepartureTime,
		"departed_at":    trip.DepartedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.CreateDeparture: %w", domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.CreateDeparture: %w", err)
	}
	return result, nil
}

// ListInProgress returns all open trips, oldest departure first.
func (r *pgTripRepo) ListInProgress(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = 'in_progress'
		ORDER BY departed_at, created_at`

	trips, err := r.queryTrips(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListInProgress: %w", err)
	}
	return trips, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// historyOrder puts open trips first, then the most recent departures.
const historyOrder = `ORDER BY (status = 'in_progress') DESC, departed_at DESC, created_at DESC`

// ListPaged returns one page of the trip history and the total row count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	q := `
		SELECT ` + tripColumns + `
		FROM trips
		` + historyOrder + `
		LIMIT @limit OFFSET @offset`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

// ListAll returns the whole trip history.
func (r *pgTripRepo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	q := `
		SELECT ` + tripColumns + `
		FROM trips
		` + historyOrder

	trips, err := r.queryTrips(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListAll: %w", err)
	}
	return trips, nil
}

// FinishInProgress closes the vehicle's latest open trip.
func (r *pgTripRepo) FinishInProgress(ctx context.Context, plate, arrivalTime string, arrivedAt time.Time) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status       = 'finished',
		    arrival_time = @arrival_time,
		    arrived_at   = @arrived_at,
		    updated_at   = now()
		WHERE id = (
			SELECT id FROM trips
			WHERE vehicle_key = @vehicle_key AND status = 'in_progress'
			ORDER BY departed_at DESC
			LIMIT 1
		)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"vehicle_key":  identity.NormalizePlate(plate),
		"arrival_time": arrivalTime,
		"arrived_at":   arrivedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.FinishInProgress: %w", err)
	}
	return result, nil
}

// DeleteLatestInProgress removes the vehicle's latest open trip.
func (r *pgTripRepo) DeleteLatestInProgress(ctx context.Context, plate string) (domain.Trip, error) {
	const q = `
		DELETE FROM trips
		WHERE id = (
			SELECT id FROM trips
			WHERE vehicle_key = @vehicle_key AND status = 'in_progress'
			ORDER BY departed_at DESC
			LIMIT 1
		)
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_key": identity.NormalizePlate(plate)}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.DeleteLatestInProgress: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) queryTrips(ctx context.Context, q string, args ...any) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and the nullable arrival columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		id          pgtype.UUID
		status      string
		arrivalTime pgtype.Text
		arrivedAt   pgtype.Timestamptz
	)

	err := s.Scan(&id, &t.Vehicle, &t.Driver, &t.Requester, &t.Route, &status,
		&t.DepartureTime, &t.DepartedAt, &arrivalTime, &arrivedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Status = domain.TripStatus(status)
	if arrivalTime.Valid {
		t.ArrivalTime = arrivalTime.String
	}
	if arrivedAt.Valid {
		at := arrivedAt.Time
		t.ArrivedAt = &at
	}

	return t, nil
}
