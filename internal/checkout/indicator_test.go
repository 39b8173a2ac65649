package checkout_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/frotalog/frotalog/internal/checkout"
)

func newIndicator(store *fakeStore) *checkout.Indicator {
	return checkout.NewIndicator(store, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIndicator_Hints(t *testing.T) {
	store := newFakeStore(openTrip("ABC-1234", "Ana Lúcia", "08:00"))
	ind := newIndicator(store)
	ctx := context.Background()

	assert.Equal(t, "Este veículo já está em curso com Ana Lúcia", ind.VehicleHint(ctx, "abc1234"))
	assert.Equal(t, "Este motorista já está em viagem no veículo ABC-1234", ind.DriverHint(ctx, "ana lucia"))
	assert.Empty(t, ind.VehicleHint(ctx, "XYZ0000"))
	assert.Empty(t, ind.DriverHint(ctx, "Bruno"))
	assert.Equal(t, 1, ind.Count(ctx))
}

func TestIndicator_ReusesSnapshot(t *testing.T) {
	store := newFakeStore(openTrip("ABC1234", "Ana", "08:00"))
	ind := newIndicator(store)
	ctx := context.Background()

	ind.VehicleHint(ctx, "ABC1234")
	ind.DriverHint(ctx, "Ana")
	ind.Count(ctx)

	assert.Equal(t, 1, store.lookupCount())
}

func TestIndicator_RefreshDropsSnapshot(t *testing.T) {
	store := newFakeStore()
	ind := newIndicator(store)
	ctx := context.Background()

	assert.Empty(t, ind.VehicleHint(ctx, "ABC1234"))

	_, err := store.SubmitDeparture(ctx, candidate("ABC1234", "Ana"))
	assert.NoError(t, err)
	ind.RefreshInProgress(ctx)

	assert.NotEmpty(t, ind.VehicleHint(ctx, "ABC1234"))
	assert.Equal(t, 2, store.lookupCount())
}

// TestIndicator_LookupFailureIsSilent checks that a failed read only drops
// the hint.
func TestIndicator_LookupFailureIsSilent(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = errors.New("offline")
	ind := newIndicator(store)
	ctx := context.Background()

	assert.Empty(t, ind.VehicleHint(ctx, "ABC1234"))
	assert.Empty(t, ind.DriverHint(ctx, "Ana"))
	assert.Equal(t, -1, ind.Count(ctx))
}
