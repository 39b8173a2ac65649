package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent names a change recorded in the audit log.
type AuditEvent string

const (
	AuditDeparture AuditEvent = "departure"
	AuditArrival   AuditEvent = "arrival"
	AuditCancel    AuditEvent = "cancel"
)

// AuditEntry is one line of the audit log. Detail is a short human-readable
// description ("route Centro -> Aeroporto", "odometer 12345").
type AuditEntry struct {
	ID        uuid.UUID  `json:"id"`
	Event     AuditEvent `json:"event"`
	TripID    uuid.UUID  `json:"tripId"`
	Vehicle   string     `json:"vehicle"`
	Driver    string     `json:"driver"`
	Detail    string     `json:"detail,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
