package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gigpro/internal/common"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// interface satisfies it too, which is what the repository tests run against.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translateNotFound converts pgx's no-rows sentinel into the domain not-found
// error so callers never import pgx for error checks.
func translateNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	return err
}
