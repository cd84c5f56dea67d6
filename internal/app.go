package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/filesmanager/pkg/health"
	"github.com/dmitrymomot/filesmanager/pkg/job"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App wires routing, middleware and the server lifecycle.
// It is immutable after New.
type App struct {
	router                  chi.Router
	logger                  *slog.Logger
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	health                  *healthConfig
	jobs                    *job.Manager
	middlewares             []Middleware
	handlers                []Handler
	mounts                  []mount
}

type mount struct {
	pattern string
	handler http.Handler
}

// New builds an App from options and registers all routes.
func New(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setupRoutes()
	return a
}

// ServeHTTP makes the App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves on addr until SIGINT or SIGTERM. A configured job manager is
// started before the listener and stopped after it.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	startup := cfg.startupHooks
	shutdown := cfg.shutdownHooks
	if a.jobs != nil {
		startup = append(startup, a.jobs.StartFunc())
		shutdown = append([]func(context.Context) error{a.jobs.Shutdown()}, shutdown...)
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startup,
		shutdownHooks:   shutdown,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.health != nil {
		a.router.Get(a.health.livenessPath, health.LivenessHandler())
		a.router.Get(a.health.readinessPath, health.ReadinessHandler(a.health.checks, health.WithLogger(a.logger)))
	}

	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c, "handler failed after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr == nil {
			return
		}
	}
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks[name] = fn
		}
	}
}
