package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

const (
	// DefaultSweepSchedule runs the sweep every 30 minutes.
	DefaultSweepSchedule = "*/30 * * * *"
	// DefaultTempMaxAge is how old an upload temp file must be to be removed.
	DefaultTempMaxAge = time.Hour
)

// TempSweeper removes stale upload temp files. *storage.Local satisfies it.
type TempSweeper interface {
	SweepTemp(ctx context.Context, maxAge time.Duration) (int, error)
}

// SweepTempFiles is a scheduled task that clears temp files left behind by
// interrupted uploads. Committed blobs are never touched.
type SweepTempFiles struct {
	sweeper TempSweeper
	maxAge  time.Duration
	log     *slog.Logger
}

func NewSweepTempFiles(sweeper TempSweeper, maxAge time.Duration, log *slog.Logger) *SweepTempFiles {
	if maxAge <= 0 {
		maxAge = DefaultTempMaxAge
	}
	return &SweepTempFiles{sweeper: sweeper, maxAge: maxAge, log: logger.OrNope(log)}
}

func (t *SweepTempFiles) Name() string     { return "sweep_temp_files" }
func (t *SweepTempFiles) Schedule() string { return DefaultSweepSchedule }

func (t *SweepTempFiles) Handle(ctx context.Context) error {
	n, err := t.sweeper.SweepTemp(ctx, t.maxAge)
	if err != nil {
		return err
	}
	if n > 0 {
		t.log.InfoContext(ctx, "removed stale upload temp files", slog.Int("count", n))
	}
	return nil
}
