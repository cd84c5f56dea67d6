package filesmanager

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/filesmanager/internal"
	"github.com/dmitrymomot/filesmanager/pkg/health"
	"github.com/dmitrymomot/filesmanager/pkg/job"
)

type (
	// App owns routing, middleware and the server lifecycle.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context gives handlers access to the request and response.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	HandlerFunc  = internal.HandlerFunc
	Middleware   = internal.Middleware
	ErrorHandler = internal.ErrorHandler

	// HTTPError carries a status code and a client-facing message.
	HTTPError = internal.HTTPError

	Option       = internal.Option
	RunOption    = internal.RunOption
	HealthOption = internal.HealthOption
)

// New builds an application. The App is immutable after creation.
//
//	app := filesmanager.New(
//	    filesmanager.WithLogger(log),
//	    filesmanager.WithMiddleware(middlewares.RequestID()),
//	    filesmanager.WithHandlers(handlers.NewFiles(svc, tokens)),
//	)
//	err := app.Run(":5000", filesmanager.ShutdownHook(db.Shutdown(pool)))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithLogger sets the logger handed to every request Context.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers whose Routes are called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler renders errors returned by handlers and middleware.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler handles requests that match no route. Its error goes
// through the ErrorHandler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler handles requests whose path matches a route
// registered for another method.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks exposes /health/live and /health/ready.
//
//	filesmanager.WithHealthChecks(
//	    filesmanager.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithMount attaches a plain http.Handler under pattern.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithJobs starts m with the server and stops it on shutdown.
func WithJobs(m *job.Manager) Option {
	return internal.WithJobs(m)
}

// Health check options

// WithLivenessPath overrides /health/live.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides /health/ready.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named check. Checks run in parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the logger for lifecycle messages. Defaults to the App logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Default: 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs before the listener opens. A failing hook aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs after the server stops, in registration order.
//
//	filesmanager.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the parent context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError builds an error rendered with code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

