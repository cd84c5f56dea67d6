package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesmanager/pkg/health"
	"github.com/dmitrymomot/filesmanager/pkg/job"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the logger handed to every request Context.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware appends global middleware, applied in order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks registers /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			checks:        make(health.Checks),
			livenessPath:  "/health/live",
			readinessPath: "/health/ready",
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.health = cfg
	}
}

// WithMount attaches a plain http.Handler, such as the metrics endpoint.
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{pattern: pattern, handler: h})
		}
	}
}

// WithJobs ties the job manager to the server lifecycle.
func WithJobs(m *job.Manager) Option {
	return func(a *App) {
		a.jobs = m
	}
}
