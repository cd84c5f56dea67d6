package repository

import (
	"context"
	"embed"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/filesmanager/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema, recording versions in table. An
// empty table keeps the goose default.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return db.Migrate(ctx, pool, migrations, "migrations", table, log)
}

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// parseID reports whether s is a UUID. Anything else cannot match a row.
func parseID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}
