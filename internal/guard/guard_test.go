package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/guard"
)

// mockLister is a hand-written test double for guard.TripLister.
type mockLister struct {
	inProgress func(ctx context.Context) ([]domain.InProgressTrip, error)
	calls      int
}

func (m *mockLister) InProgress(ctx context.Context) ([]domain.InProgressTrip, error) {
	m.calls++
	return m.inProgress(ctx)
}

var _ guard.TripLister = (*mockLister)(nil)

func listerOf(trips ...domain.InProgressTrip) *mockLister {
	return &mockLister{
		inProgress: func(context.Context) ([]domain.InProgressTrip, error) { return trips, nil },
	}
}

func openTrip(vehicle, driver, at string) domain.InProgressTrip {
	return domain.InProgressTrip{Vehicle: vehicle, Driver: driver, DepartureTimeDisplay: at}
}

// ---- FindByVehicle / FindByDriver ------------------------------------------

func TestFindByVehicle_NormalizedMatch(t *testing.T) {
	trips := []domain.InProgressTrip{
		openTrip("DEF0001", "Bruno", "07:10"),
		openTrip("abc-1234", "Ana", "08:00"),
	}

	got, ok := guard.FindByVehicle(trips, "ABC 1234")

	require.True(t, ok)
	assert.Equal(t, "Ana", got.Driver)
}

func TestFindByVehicle_FirstMatchWins(t *testing.T) {
	trips := []domain.InProgressTrip{
		openTrip("ABC1234", "Ana", "08:00"),
		openTrip("abc-1234", "Bruno", "09:00"),
	}

	got, ok := guard.FindByVehicle(trips, "abc1234")

	require.True(t, ok)
	assert.Equal(t, "Ana", got.Driver)
}

func TestFindByVehicle_EmptyPlateNeverMatches(t *testing.T) {
	trips := []domain.InProgressTrip{openTrip("", "Ana", "08:00")}

	_, ok := guard.FindByVehicle(trips, " - ")

	assert.False(t, ok)
}

func TestFindByDriver_AccentsCaseSpacing(t *testing.T) {
	trips := []domain.InProgressTrip{openTrip("DEF0001", "João  SILVA", "07:30")}

	got, ok := guard.FindByDriver(trips, "joão silva")

	require.True(t, ok)
	assert.Equal(t, "DEF0001", got.Vehicle)
}

func TestFindByDriver_NoMatch(t *testing.T) {
	trips := []domain.InProgressTrip{openTrip("DEF0001", "João Silva", "07:30")}

	_, ok := guard.FindByDriver(trips, "João Silveira")

	assert.False(t, ok)
}

// ---- Check ------------------------------------------------------------------

func TestCheck_Allowed_EmptySet(t *testing.T) {
	g := guard.New(listerOf())

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "abc-1234", Driver: "Maria Souza"})

	require.NoError(t, err)
	assert.Equal(t, domain.CheckAllowed, got.Kind)
	assert.True(t, got.Allowed())
	assert.Equal(t, domain.InProgressTrip{}, got.Conflict)
}

func TestCheck_VehicleConflict(t *testing.T) {
	ana := openTrip("abc-1234", "Ana", "08:00")
	g := guard.New(listerOf(ana))

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "ABC1234", Driver: "Carlos"})

	require.NoError(t, err)
	assert.Equal(t, domain.CheckVehicleConflict, got.Kind)
	assert.Equal(t, ana, got.Conflict)
}

// TestCheck_VehicleWinsOverDriver checks the precedence when the same
// candidate collides on both vehicle and driver, including when the driver
// match appears earlier in the list.
func TestCheck_VehicleWinsOverDriver(t *testing.T) {
	driverTrip := openTrip("XYZ0000", "Carlos", "06:00")
	vehicleTrip := openTrip("ABC1234", "Ana", "08:00")
	g := guard.New(listerOf(driverTrip, vehicleTrip))

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "abc-1234", Driver: "carlos"})

	require.NoError(t, err)
	assert.Equal(t, domain.CheckVehicleConflict, got.Kind)
	assert.Equal(t, vehicleTrip, got.Conflict)
}

func TestCheck_DriverConflict(t *testing.T) {
	joao := openTrip("DEF0001", "João  SILVA", "07:30")
	g := guard.New(listerOf(joao))

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "XYZ9999", Driver: "joão silva"})

	require.NoError(t, err)
	assert.Equal(t, domain.CheckDriverConflict, got.Kind)
	assert.False(t, got.Allowed())
	assert.Equal(t, joao, got.Conflict)
}

func TestCheck_NeitherMatches(t *testing.T) {
	g := guard.New(listerOf(openTrip("DEF0001", "João Silva", "07:30")))

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "XYZ9999", Driver: "Maria"})

	require.NoError(t, err)
	assert.Equal(t, domain.CheckAllowed, got.Kind)
}

func TestCheck_LookupFailureIsNeverAllowed(t *testing.T) {
	boom := errors.New("connection refused")
	g := guard.New(&mockLister{
		inProgress: func(context.Context) ([]domain.InProgressTrip, error) { return nil, boom },
	})

	got, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "ABC1234", Driver: "Ana"})

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.CheckUnknown, got.Kind)
	assert.False(t, got.Allowed(), "a failed check must not read as allowed")
}

func TestCheck_LookupErrorPassedThrough(t *testing.T) {
	orig := &domain.LookupError{Err: context.DeadlineExceeded}
	g := guard.New(&mockLister{
		inProgress: func(context.Context) ([]domain.InProgressTrip, error) { return nil, orig },
	})

	_, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "ABC1234", Driver: "Ana"})

	assert.Same(t, orig, err)
}

func TestCheck_RefetchesEveryCall(t *testing.T) {
	lister := listerOf()
	g := guard.New(lister)

	for i := 0; i < 3; i++ {
		_, err := g.Check(context.Background(), domain.TripCandidate{Vehicle: "ABC1234", Driver: "Ana"})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, lister.calls)
}

// TestClassify_Properties sweeps a small grid of candidates and open sets to
// check the three classification rules together.
func TestClassify_Properties(t *testing.T) {
	sets := [][]domain.InProgressTrip{
		nil,
		{openTrip("ABC-1234", "Ana", "08:00")},
		{openTrip("DEF0001", "Carlos", "07:00"), openTrip("abc1234", "Bia", "09:00")},
		{openTrip("GHI2222", "José da Silva", "10:00")},
	}
	candidates := []domain.TripCandidate{
		{Vehicle: "abc 1234", Driver: "Carlos"},
		{Vehicle: "zzz0000", Driver: "jose  DA silva"},
		{Vehicle: "zzz0000", Driver: "Nobody"},
		{Vehicle: "DEF-0001", Driver: "josé da silva"},
	}

	for _, set := range sets {
		for _, c := range candidates {
			got := guard.Classify(set, c)
			_, vehicleHit := guard.FindByVehicle(set, c.Vehicle)
			_, driverHit := guard.FindByDriver(set, c.Driver)

			switch {
			case vehicleHit:
				assert.Equal(t, domain.CheckVehicleConflict, got.Kind, "candidate %+v set %+v", c, set)
			case driverHit:
				assert.Equal(t, domain.CheckDriverConflict, got.Kind, "candidate %+v set %+v", c, set)
			default:
				assert.Equal(t, domain.CheckAllowed, got.Kind, "candidate %+v set %+v", c, set)
			}
		}
	}
}
