package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

const defaultFlushTimeout = 2 * time.Second

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	// MinLevel selects which records are kept as Sentry logs.
	// Errors always create issues.
	MinLevel slog.Level
}

// NewWithSentry creates a logger that writes to stdout and, when a DSN is
// configured, to Sentry. Initialization failures fall back to stdout only.
func NewWithSentry(cfg SentryConfig, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if cfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(stdout, sentryHandler), extractors...))
}

// FlushSentry returns a shutdown hook that drains buffered Sentry events
// within the hook's deadline. It is a no-op when Sentry was never initialized.
func FlushSentry() func(context.Context) error {
	return func(ctx context.Context) error {
		if sentry.CurrentHub().Client() == nil {
			return nil
		}
		timeout := defaultFlushTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		sentry.Flush(timeout)
		return nil
	}
}
