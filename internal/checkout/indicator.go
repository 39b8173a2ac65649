package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/guard"
)

const snapshotKey = "in_progress"

// Indicator produces field hints while the operator types ("this vehicle is
// already out"). Hints are cosmetic: the snapshot is cached briefly and a
// failed read simply yields no hint. The duplicate check never uses it.
type Indicator struct {
	trips guard.TripLister
	cache *cache.Cache
	log   *slog.Logger
}

// NewIndicator builds an Indicator that reuses one in-progress snapshot for
// ttl.
func NewIndicator(trips guard.TripLister, ttl time.Duration, log *slog.Logger) *Indicator {
	return &Indicator{
		trips: trips,
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

// VehicleHint returns a hint when plate is already on an open trip.
func (i *Indicator) VehicleHint(ctx context.Context, plate string) string {
	trips, ok := i.snapshot(ctx)
	if !ok {
		return ""
	}
	if t, found := guard.FindByVehicle(trips, plate); found {
		return fmt.Sprintf("Este veículo já está em curso com %s", t.Driver)
	}
	return ""
}

// DriverHint returns a hint when name is already driving an open trip.
func (i *Indicator) DriverHint(ctx context.Context, name string) string {
	trips, ok := i.snapshot(ctx)
	if !ok {
		return ""
	}
	if t, found := guard.FindByDriver(trips, name); found {
		return fmt.Sprintf("Este motorista já está em viagem no veículo %s", t.Vehicle)
	}
	return ""
}

// Count returns the number of open trips, or -1 when it cannot be read.
func (i *Indicator) Count(ctx context.Context) int {
	trips, ok := i.snapshot(ctx)
	if !ok {
		return -1
	}
	return len(trips)
}

// RefreshInProgress drops the cached snapshot so the next hint reads fresh
// data. It lets an Indicator sit in a Controller's refresher chain.
func (i *Indicator) RefreshInProgress(context.Context) {
	i.cache.Delete(snapshotKey)
}

func (i *Indicator) snapshot(ctx context.Context) ([]domain.InProgressTrip, bool) {
	if v, found := i.cache.Get(snapshotKey); found {
		return v.([]domain.InProgressTrip), true
	}
	trips, err := i.trips.InProgress(ctx)
	if err != nil {
		i.log.DebugContext(ctx, "indicator lookup failed", "error", err)
		return nil, false
	}
	i.cache.SetDefault(snapshotKey, trips)
	return trips, true
}
