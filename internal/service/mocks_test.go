package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/events"
	"github.com/frotalog/frotalog/internal/repo"
	"github.com/frotalog/frotalog/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	createDeparture        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	listInProgress         func(ctx context.Context) ([]domain.Trip, error)
	getByID                func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged              func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	listAll                func(ctx context.Context) ([]domain.Trip, error)
	finishInProgress       func(ctx context.Context, plate, arrivalTime string, arrivedAt time.Time) (domain.Trip, error)
	deleteLatestInProgress func(ctx context.Context, plate string) (domain.Trip, error)
}

func (m *mockTripRepo) CreateDeparture(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.createDeparture(ctx, trip)
}
func (m *mockTripRepo) ListInProgress(ctx context.Context) ([]domain.Trip, error) {
	return m.listInProgress(ctx)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	return m.listAll(ctx)
}
func (m *mockTripRepo) FinishInProgress(ctx context.Context, plate, arrivalTime string, arrivedAt time.Time) (domain.Trip, error) {
	return m.finishInProgress(ctx, plate, arrivalTime, arrivedAt)
}
func (m *mockTripRepo) DeleteLatestInProgress(ctx context.Context, plate string) (domain.Trip, error) {
	return m.deleteLatestInProgress(ctx, plate)
}

// mockFleetRepo is a hand-written test double for repo.FleetRepo.
type mockFleetRepo struct {
	countDeparture func(ctx context.Context, driver, plate string) error
	recordRefuel   func(ctx context.Context, tripID uuid.UUID, refuel domain.Refuel) (domain.Refuel, error)
	getDriver      func(ctx context.Context, name string) (domain.Driver, error)
	getVehicle     func(ctx context.Context, plate string) (domain.Vehicle, error)
}

func (m *mockFleetRepo) CountDeparture(ctx context.Context, driver, plate string) error {
	return m.countDeparture(ctx, driver, plate)
}
func (m *mockFleetRepo) RecordRefuel(ctx context.Context, tripID uuid.UUID, refuel domain.Refuel) (domain.Refuel, error) {
	return m.recordRefuel(ctx, tripID, refuel)
}
func (m *mockFleetRepo) GetDriver(ctx context.Context, name string) (domain.Driver, error) {
	return m.getDriver(ctx, name)
}
func (m *mockFleetRepo) GetVehicle(ctx context.Context, plate string) (domain.Vehicle, error) {
	return m.getVehicle(ctx, plate)
}

// mockAuditRepo is a hand-written test double for repo.AuditRepo.
type mockAuditRepo struct {
	insert     func(ctx context.Context, e domain.AuditEntry) (domain.AuditEntry, error)
	listRecent func(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

func (m *mockAuditRepo) Insert(ctx context.Context, e domain.AuditEntry) (domain.AuditEntry, error) {
	return m.insert(ctx, e)
}
func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return m.listRecent(ctx, limit)
}

// fakeTx runs fn against the same mocks, counting calls. It does not roll
// anything back; tests assert on what fn attempted.
type fakeTx struct {
	repos repo.Repos
	calls int
}

func (f *fakeTx) InTx(_ context.Context, fn func(repo.Repos) error) error {
	f.calls++
	return fn(f.repos)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TripEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.TripEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

// compile-time checks: the mocks must satisfy the interfaces they replace.
var (
	_ repo.TripRepo          = (*mockTripRepo)(nil)
	_ repo.FleetRepo         = (*mockFleetRepo)(nil)
	_ repo.AuditRepo         = (*mockAuditRepo)(nil)
	_ repo.Transactor        = (*fakeTx)(nil)
	_ service.EventPublisher = (*recordingPublisher)(nil)
)
