// Package guard decides whether a proposed departure duplicates a trip that
// is already in progress.
package guard

import (
	"context"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/identity"
)

// TripLister reads every trip currently in progress.
// Implementations return *domain.LookupError when the read cannot complete;
// an empty slice always means "nothing is open".
type TripLister interface {
	InProgress(ctx context.Context) ([]domain.InProgressTrip, error)
}

// FindByVehicle returns the first trip whose plate normalizes to the same
// key as plate.
func FindByVehicle(trips []domain.InProgressTrip, plate string) (domain.InProgressTrip, bool) {
	key := identity.NormalizePlate(plate)
	if key == "" {
		return domain.InProgressTrip{}, false
	}
	for _, t := range trips {
		if identity.NormalizePlate(t.Vehicle) == key {
			return t, true
		}
	}
	return domain.InProgressTrip{}, false
}

// FindByDriver returns the first trip whose driver name normalizes to the
// same key as name.
func FindByDriver(trips []domain.InProgressTrip, name string) (domain.InProgressTrip, bool) {
	key := identity.NormalizeDriverName(name)
	if key == "" {
		return domain.InProgressTrip{}, false
	}
	for _, t := range trips {
		if identity.NormalizeDriverName(t.Driver) == key {
			return t, true
		}
	}
	return domain.InProgressTrip{}, false
}
