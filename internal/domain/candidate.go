package domain

// TripCandidate is a proposed departure as typed by the operator.
// Values are kept exactly as entered; comparisons go through the identity
// package and storage formatting happens in the store.
type TripCandidate struct {
	Vehicle       string `json:"vehicle"`
	Driver        string `json:"driver"`
	Requester     string `json:"requester"`
	Route         string `json:"route"`
	DepartureTime string `json:"departureTime,omitempty"` // "15:04" or empty for now
}

// CheckKind classifies a candidate against the open trips.
type CheckKind int

const (
	// CheckUnknown is the zero value: the candidate was never classified,
	// usually because the open trips could not be read. It is not Allowed.
	CheckUnknown CheckKind = iota
	// CheckAllowed means no open trip shares the vehicle or the driver.
	CheckAllowed
	// CheckVehicleConflict means the vehicle is already out. Always blocks.
	CheckVehicleConflict
	// CheckDriverConflict means the driver is already out on another
	// vehicle. Proceeding needs an explicit override.
	CheckDriverConflict
)

// String returns the label used in logs and metrics.
func (k CheckKind) String() string {
	switch k {
	case CheckUnknown:
		return "unknown"
	case CheckAllowed:
		return "allowed"
	case CheckVehicleConflict:
		return "vehicle_conflict"
	case CheckDriverConflict:
		return "driver_conflict"
	default:
		return "unknown"
	}
}

// DuplicateCheckResult is the outcome of one duplicate check.
// Conflict is the zero value when Kind is CheckAllowed. The zero
// DuplicateCheckResult has Kind CheckUnknown.
type DuplicateCheckResult struct {
	Kind     CheckKind
	Conflict InProgressTrip
}

// Allowed reports whether the candidate had no conflict at all.
func (r DuplicateCheckResult) Allowed() bool {
	return r.Kind == CheckAllowed
}
