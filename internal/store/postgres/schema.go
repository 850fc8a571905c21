// Package postgres persists users and accounts through pgx. It is selected
// with STORE_BACKEND=postgres; sessions stay in memory or redis.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables this backend needs. Two tables do not
// justify a migration tool; the statements are idempotent so startup runs
// them unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			is_officer BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			seq BIGINT GENERATED ALWAYS AS IDENTITY,
			user_email TEXT NOT NULL,
			account_type TEXT NOT NULL,
			account_name TEXT NOT NULL,
			institution TEXT NOT NULL,
			balance DOUBLE PRECISION NOT NULL,
			credit_limit DOUBLE PRECISION,
			interest_rate DOUBLE PRECISION,
			minimum_payment DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS accounts_owner_idx ON accounts (user_email, seq)`,
	}

	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
