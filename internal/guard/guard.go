package guard

import (
	"context"
	"errors"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/metrics"
)

// Guard classifies departure candidates against a fresh read of the open
// trips. It holds no snapshot between calls.
type Guard struct {
	trips TripLister
}

// New constructs a Guard reading from trips.
func New(trips TripLister) *Guard {
	return &Guard{trips: trips}
}

// Check classifies candidate. The vehicle check runs first and always wins:
// a vehicle already out is a VehicleConflict even when the driver matches
// too. A driver match alone is a DriverConflict.
//
// A failed read is returned as *domain.LookupError and never as Allowed.
func (g *Guard) Check(ctx context.Context, candidate domain.TripCandidate) (domain.DuplicateCheckResult, error) {
	trips, err := g.trips.InProgress(ctx)
	if err != nil {
		metrics.DuplicateChecks.WithLabelValues("lookup_error").Inc()
		var lookupErr *domain.LookupError
		if errors.As(err, &lookupErr) {
			return domain.DuplicateCheckResult{}, err
		}
		return domain.DuplicateCheckResult{}, &domain.LookupError{Err: err}
	}

	result := Classify(trips, candidate)
	metrics.DuplicateChecks.WithLabelValues(result.Kind.String()).Inc()
	return result, nil
}

// Classify is the pure part of Check, for callers that already hold a
// snapshot they just read.
func Classify(trips []domain.InProgressTrip, candidate domain.TripCandidate) domain.DuplicateCheckResult {
	if t, ok := FindByVehicle(trips, candidate.Vehicle); ok {
		return domain.DuplicateCheckResult{Kind: domain.CheckVehicleConflict, Conflict: t}
	}
	if t, ok := FindByDriver(trips, candidate.Driver); ok {
		return domain.DuplicateCheckResult{Kind: domain.CheckDriverConflict, Conflict: t}
	}
	return domain.DuplicateCheckResult{Kind: domain.CheckAllowed}
}
