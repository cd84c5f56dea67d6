package job

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// Migrate brings River's tables up to the version shipped with the
// linked River release.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	if pool == nil {
		return ErrPoolRequired
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	for _, v := range res.Versions {
		log.InfoContext(ctx, "river migration applied", slog.Int("version", v.Version), slog.String("name", v.Name))
	}
	return nil
}
