package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/frotalog/frotalog/internal/domain"
)

// AuditRepo stores the audit log.
type AuditRepo interface {
	// Insert appends an entry and returns it with its DB-generated id and timestamp.
	Insert(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)

	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

func (r *pgAuditRepo) Insert(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	const q = `
		INSERT INTO audit_logs (event, trip_id, vehicle, driver, detail)
		VALUES (@event, @trip_id, @vehicle, @driver, @detail)
		RETURNING id, event, trip_id, vehicle, driver, detail, created_at`

	var tripID *uuid.UUID
	if entry.TripID != uuid.Nil {
		tripID = &entry.TripID
	}

	args := pgx.NamedArgs{
		"event":   string(entry.Event),
		"trip_id": tripID,
		"vehicle": entry.Vehicle,
		"driver":  entry.Driver,
		"detail":  entry.Detail,
	}

	result, err := scanAudit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("repo.AuditRepo.Insert: %w", err)
	}
	return result, nil
}

func (r *pgAuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	const q = `
		SELECT id, event, trip_id, vehicle, driver, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AuditRepo.ListRecent: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListRecent: rows: %w", err)
	}
	return entries, nil
}

func scanAudit(s scanner) (domain.AuditEntry, error) {
	var (
		e      domain.AuditEntry
		id     pgtype.UUID
		tripID pgtype.UUID
		event  string
	)
	if err := s.Scan(&id, &event, &tripID, &e.Vehicle, &e.Driver, &e.Detail, &e.CreatedAt); err != nil {
		return domain.AuditEntry{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.Event = domain.AuditEvent(event)
	if tripID.Valid {
		e.TripID = uuid.UUID(tripID.Bytes)
	}
	return e, nil
}
