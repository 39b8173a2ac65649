package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/repo"
	"github.com/frotalog/frotalog/testutil"
)

// newTestStore opens a transaction against the test database and returns a
// Store backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(testutil.NewTx(t))
}

// departureFixture returns an in-progress trip with sensible defaults.
// Callers can override individual fields after calling this function.
func departureFixture() domain.Trip {
	return domain.Trip{
		Vehicle:       "ABC1D23",
		Driver:        "José Silva",
		Requester:     "Ana Souza",
		Route:         "Centro - Aeroporto",
		DepartureTime: "08:15",
		DepartedAt:    time.Date(2025, 6, 1, 11, 15, 0, 0, time.UTC),
	}
}

func TestTripRepo_CreateDeparture(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	input := departureFixture()
	got, err := r.CreateDeparture(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Vehicle, got.Vehicle)
	assert.Equal(t, input.Driver, got.Driver)
	assert.Equal(t, domain.TripInProgress, got.Status)
	assert.Equal(t, "08:15", got.DepartureTime)
	assert.True(t, got.DepartedAt.Equal(input.DepartedAt), "DepartedAt mismatch")
	assert.Nil(t, got.ArrivedAt)
	assert.Empty(t, got.ArrivalTime)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_CreateDeparture_VehicleAlreadyOut(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Repos().Trips.CreateDeparture(ctx, departureFixture())
	require.NoError(t, err)

	// Same plate in another format. Run inside InTx so the failed insert only
	// aborts a savepoint, not the test transaction.
	second := departureFixture()
	second.Vehicle = "abc-1d23"
	second.Driver = "Maria Lima"
	err = store.InTx(ctx, func(rs repo.Repos) error {
		_, err := rs.Trips.CreateDeparture(ctx, second)
		return err
	})

	assert.ErrorIs(t, err, domain.ErrConflict)

	open, err := store.Repos().Trips.ListInProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestTripRepo_CreateDeparture_SameDriverTwoVehicles(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	_, err := r.CreateDeparture(ctx, departureFixture())
	require.NoError(t, err)

	second := departureFixture()
	second.Vehicle = "XYZ9876"
	_, err = r.CreateDeparture(ctx, second)

	require.NoError(t, err, "driver overlap is allowed at the store")
}

func TestTripRepo_ListInProgress_OldestFirst(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	late := departureFixture()
	late.Vehicle = "LATE001"
	late.DepartedAt = late.DepartedAt.Add(time.Hour)
	early := departureFixture()
	early.Vehicle = "EARLY01"

	_, err := r.CreateDeparture(ctx, late)
	require.NoError(t, err)
	_, err = r.CreateDeparture(ctx, early)
	require.NoError(t, err)

	open, err := r.ListInProgress(ctx)

	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "EARLY01", open[0].Vehicle)
	assert.Equal(t, "LATE001", open[1].Vehicle)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestStore(t).Repos().Trips

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_FinishInProgress(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	created, err := r.CreateDeparture(ctx, departureFixture())
	require.NoError(t, err)

	arrivedAt := created.DepartedAt.Add(2 * time.Hour)
	got, err := r.FinishInProgress(ctx, "abc 1d23", "10:15", arrivedAt)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.TripFinished, got.Status)
	assert.Equal(t, "10:15", got.ArrivalTime)
	require.NotNil(t, got.ArrivedAt)
	assert.True(t, got.ArrivedAt.Equal(arrivedAt))

	open, err := r.ListInProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// The vehicle can leave again once it is back.
	_, err = r.CreateDeparture(ctx, departureFixture())
	assert.NoError(t, err)
}

func TestTripRepo_FinishInProgress_NoOpenTrip(t *testing.T) {
	r := newTestStore(t).Repos().Trips

	_, err := r.FinishInProgress(context.Background(), "NOPE000", "10:00", time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_DeleteLatestInProgress(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	created, err := r.CreateDeparture(ctx, departureFixture())
	require.NoError(t, err)

	deleted, err := r.DeleteLatestInProgress(ctx, "ABC-1D23")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after cancel")

	_, err = r.DeleteLatestInProgress(ctx, "ABC1D23")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListPaged_InProgressFirst(t *testing.T) {
	r := newTestStore(t).Repos().Trips
	ctx := context.Background()

	done := departureFixture()
	done.Vehicle = "DONE001"
	done.DepartedAt = done.DepartedAt.Add(3 * time.Hour) // most recent, but finished
	_, err := r.CreateDeparture(ctx, done)
	require.NoError(t, err)
	_, err = r.FinishInProgress(ctx, "DONE001", "15:00", done.DepartedAt.Add(time.Hour))
	require.NoError(t, err)

	open := departureFixture()
	open.Vehicle = "OPEN001"
	_, err = r.CreateDeparture(ctx, open)
	require.NoError(t, err)

	trips, total, err := r.ListPaged(ctx, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, trips, 2)
	assert.Equal(t, "OPEN001", trips[0].Vehicle)
	assert.Equal(t, "DONE001", trips[1].Vehicle)

	limit := 1
	page := 2
	trips, total, err = r.ListPaged(ctx, domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, trips, 1)
	assert.Equal(t, "DONE001", trips[0].Vehicle)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
