package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the health check signature shared by pkg/db, pkg/redis and pkg/job.
type CheckFunc func(ctx context.Context) error

// Checks is a set of named health checks.
type Checks map[string]CheckFunc

// Response is the aggregated result of a check run.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Healthy reports whether the named check passed.
// Unknown names report false.
func (r *Response) Healthy(name string) bool {
	c, ok := r.Checks[name]
	return ok && c.Status == StatusHealthy
}

// Check is the outcome of a single named check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures check execution.
type Option func(*config)

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failing checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks in parallel and aggregates the result.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return runChecks(ctx, checks, newConfig(opts...))
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Check, len(checks))
		failed  bool
	)

	for name, check := range checks {
		wg.Go(func() {
			err := check(ctx)
			if err == nil && ctx.Err() != nil {
				err = ErrCheckTimeout
			}
			if errors.Is(err, context.DeadlineExceeded) {
				err = errors.Join(ErrCheckTimeout, err)
			}

			result := Check{Status: StatusHealthy}
			if err != nil {
				result = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			if err != nil {
				failed = true
			}
			mu.Unlock()
		})
	}

	wg.Wait()

	status := StatusHealthy
	if failed {
		status = StatusUnhealthy
	}
	return &Response{Status: status, Checks: results}
}
