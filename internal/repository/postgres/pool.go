// Package postgres implements the repository interfaces on top of pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the narrow slice of pgxpool.Pool the repositories need. Both
// *pgxpool.Pool and pgxmock.PgxPoolIface satisfy it, which is what lets the
// repository tests run against a mock.
type PgxPool interface {
	// Exec runs a statement and reports the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query runs a SELECT and returns the rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow runs a query that yields at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// BeginTx opens a transaction with the given options.
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	// Close releases the pool's connections.
	Close()
}

// DB carries the pool handed to repository constructors.
type DB struct{ Pool PgxPool }

// New opens a connection pool against the given DSN.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Close shuts down the underlying pool.
func (db *DB) Close() { db.Pool.Close() }

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
