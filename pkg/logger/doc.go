// Package logger builds the service's structured slog loggers.
//
// Every logger writes JSON to stdout. Request-scoped values such as the
// request id or the acting user are attached per call through
// [ContextExtractor] functions wrapped around the handler by
// [LogHandlerDecorator]:
//
//	log := logger.New(slog.LevelInfo,
//		middlewares.RequestIDExtractor(),
//		middlewares.UserIDExtractor(),
//	)
//
// When a Sentry DSN is configured, [NewWithSentry] fans records out to
// both stdout and Sentry. Errors become Sentry issues, warnings are kept
// as breadcrumbs-style logs. Without a DSN it degrades to stdout only.
//
// [NewNope] returns a logger that discards everything and is the default
// for components constructed without one.
package logger
