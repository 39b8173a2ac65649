package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/identity"
)

// FleetRepo maintains the driver and vehicle registries and the refuel log.
type FleetRepo interface {
	// CountDeparture increments the trip counters of the driver and the
	// vehicle, registering either one on first sight.
	CountDeparture(ctx context.Context, driver, plate string) error

	// RecordRefuel inserts a refuel reading and, when it carries an
	// odometer value, stores it as the vehicle's last odometer.
	RecordRefuel(ctx context.Context, tripID uuid.UUID, refuel domain.Refuel) (domain.Refuel, error)

	// GetDriver looks a driver up by name, ignoring case, accents and spacing.
	// Returns domain.ErrNotFound if the driver is not registered.
	GetDriver(ctx context.Context, name string) (domain.Driver, error)

	// GetVehicle looks a vehicle up by plate in any formatting.
	// Returns domain.ErrNotFound if the vehicle is not registered.
	GetVehicle(ctx context.Context, plate string) (domain.Vehicle, error)
}

// pgFleetRepo is the Postgres implementation of FleetRepo.
type pgFleetRepo struct {
	db db
}

// NewFleetRepo constructs a FleetRepo backed by the provided db connection.
func NewFleetRepo(db db) FleetRepo {
	return &pgFleetRepo{db: db}
}

// CountDeparture upserts both registry rows. The name stored for a driver
// is the one seen first.
func (r *pgFleetRepo) CountDeparture(ctx context.Context, driver, plate string) error {
	const qDriver = `
		INSERT INTO drivers (name, name_key, status, total_trips)
		VALUES (@name, @name_key, 'not_accredited', 1)
		ON CONFLICT (name_key) DO UPDATE
		SET total_trips = drivers.total_trips + 1,
		    updated_at  = now()`

	const qVehicle = `
		INSERT INTO vehicles (plate, total_trips)
		VALUES (@plate, 1)
		ON CONFLICT (plate) DO UPDATE
		SET total_trips = vehicles.total_trips + 1,
		    updated_at  = now()`

	_, err := r.db.Exec(ctx, qDriver, pgx.NamedArgs{
		"name":     driver,
		"name_key": identity.NormalizeDriverName(driver),
	})
	if err != nil {
		return fmt.Errorf("repo.FleetRepo.CountDeparture: driver: %w", err)
	}

	_, err = r.db.Exec(ctx, qVehicle, pgx.NamedArgs{"plate": identity.NormalizePlate(plate)})
	if err != nil {
		return fmt.Errorf("repo.FleetRepo.CountDeparture: vehicle: %w", err)
	}
	return nil
}

// RecordRefuel inserts the reading and updates vehicles.last_odometer.
func (r *pgFleetRepo) RecordRefuel(ctx context.Context, tripID uuid.UUID, refuel domain.Refuel) (domain.Refuel, error) {
	const q = `
		INSERT INTO refuels (trip_id, vehicle, driver, liters, odometer, recorded_at)
		VALUES (@trip_id, @vehicle, @driver, @liters, @odometer, @recorded_at)
		RETURNING id, vehicle, driver, liters::float8, odometer, recorded_at`

	var trip *uuid.UUID
	if tripID != uuid.Nil {
		trip = &tripID
	}

	args := pgx.NamedArgs{
		"trip_id":     trip,
		"vehicle":     refuel.Vehicle,
		"driver":      refuel.Driver,
		"liters":      refuel.Liters,   // nil becomes NULL
		"odometer":    refuel.Odometer, // nil becomes NULL
		"recorded_at": refuel.RecordedAt,
	}

	result, err := scanRefuel(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Refuel{}, fmt.Errorf("repo.FleetRepo.RecordRefuel: %w", err)
	}

	if refuel.Odometer != nil {
		const qOdo = `
			INSERT INTO vehicles (plate, last_odometer)
			VALUES (@plate, @odometer)
			ON CONFLICT (plate) DO UPDATE
			SET last_odometer = EXCLUDED.last_odometer,
			    updated_at    = now()`

		_, err := r.db.Exec(ctx, qOdo, pgx.NamedArgs{
			"plate":    identity.NormalizePlate(refuel.Vehicle),
			"odometer": *refuel.Odometer,
		})
		if err != nil {
			return domain.Refuel{}, fmt.Errorf("repo.FleetRepo.RecordRefuel: odometer: %w", err)
		}
	}
	return result, nil
}

// GetDriver retrieves a driver by normalized name.
func (r *pgFleetRepo) GetDriver(ctx context.Context, name string) (domain.Driver, error) {
	const q = `
		SELECT id, name, status, total_trips, created_at, updated_at
		FROM drivers
		WHERE name_key = @name_key`

	var (
		d      domain.Driver
		id     pgtype.UUID
		status string
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name_key": identity.NormalizeDriverName(name)}).
		Scan(&id, &d.Name, &status, &d.TotalTrips, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, fmt.Errorf("repo.FleetRepo.GetDriver: %w", domain.ErrNotFound)
		}
		return domain.Driver{}, fmt.Errorf("repo.FleetRepo.GetDriver: %w", err)
	}
	d.ID = uuid.UUID(id.Bytes)
	d.Status = domain.DriverStatus(status)
	return d, nil
}

// GetVehicle retrieves a vehicle by normalized plate.
func (r *pgFleetRepo) GetVehicle(ctx context.Context, plate string) (domain.Vehicle, error) {
	const q = `
		SELECT id, plate, total_trips, last_odometer, created_at, updated_at
		FROM vehicles
		WHERE plate = @plate`

	var (
		v   domain.Vehicle
		id  pgtype.UUID
		odo pgtype.Int4
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"plate": identity.NormalizePlate(plate)}).
		Scan(&id, &v.Plate, &v.TotalTrips, &odo, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, fmt.Errorf("repo.FleetRepo.GetVehicle: %w", domain.ErrNotFound)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.FleetRepo.GetVehicle: %w", err)
	}
	v.ID = uuid.UUID(id.Bytes)
	if odo.Valid {
		n := int(odo.Int32)
		v.LastOdometer = &n
	}
	return v, nil
}

func scanRefuel(s scanner) (domain.Refuel, error) {
	var (
		f      domain.Refuel
		id     pgtype.UUID
		liters pgtype.Float8
		odo    pgtype.Int4
	)
	if err := s.Scan(&id, &f.Vehicle, &f.Driver, &liters, &odo, &f.RecordedAt); err != nil {
		return domain.Refuel{}, err
	}
	f.ID = uuid.UUID(id.Bytes)
	if liters.Valid {
		l := liters.Float64
		f.Liters = &l
	}
	if odo.Valid {
		n := int(odo.Int32)
		f.Odometer = &n
	}
	return f, nil
}
