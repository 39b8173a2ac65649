// Package repo contains all database access logic for the Frotalog store.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so InTx nests inside a test transaction.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles the repositories that take part in one unit of work.
type Repos struct {
	Trips TripRepo
	Fleet FleetRepo
	Audit AuditRepo
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(Repos) error) error
}

// Store is the Postgres Transactor.
type Store struct {
	db db
}

// NewStore constructs a Store. In production pass *pgxpool.Pool; in tests
// pass a pgx.Tx for rollback isolation.
func NewStore(db db) *Store {
	return &Store{db: db}
}

// Repos returns repositories bound to the store's connection, outside any
// explicit transaction.
func (s *Store) Repos() Repos {
	return bind(s.db)
}

// InTx implements Transactor.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(bind(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	return nil
}

func bind(d db) Repos {
	return Repos{
		Trips: NewTripRepo(d),
		Fleet: NewFleetRepo(d),
		Audit: NewAuditRepo(d),
	}
}

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
