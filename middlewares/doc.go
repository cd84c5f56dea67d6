// Package middlewares provides the HTTP middleware of the files service.
//
// # Request ID
//
// RequestID tags each request with an ID taken from X-Request-ID or
// X-Correlation-ID, or a fresh UUIDv7. Pair it with RequestIDExtractor so
// every log record carries the ID:
//
//	log := logger.New(slog.LevelInfo, middlewares.RequestIDExtractor())
//	app := filesmanager.New(
//	    filesmanager.WithLogger(log),
//	    filesmanager.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover and Timeout
//
// Recover converts panics into *PanicError. Timeout installs a deadline on
// the request context and reports late failures as *TimeoutError. Both end
// up in ErrorHandler as a 500.
//
// # Errors
//
// ErrorHandler renders every error as {"error": "<message>"}. Domain errors
// are mapped to status codes with ErrorMapping entries:
//
//	filesmanager.WithErrorHandler(middlewares.ErrorHandler(
//	    middlewares.ErrorMapping{Err: files.ErrNotFound, Code: 404, Message: "Not found"},
//	))
//
// Server faults are logged and answered with "Internal server error".
//
// # Authentication
//
// TokenAuth resolves the X-Token header through an auth.Resolver and
// answers 401 when it is missing or unknown. OptionalTokenAuth lets
// anonymous requests through. UserIDExtractor adds the user id to logs.
//
// # Metrics
//
// Metrics counts requests and observes latency per chi route pattern:
//
//	m := middlewares.NewMetrics("filesmanager")
//	app := filesmanager.New(
//	    filesmanager.WithMiddleware(m.Middleware()),
//	    filesmanager.WithMount("/metrics", m.Handler()),
//	)
package middlewares
