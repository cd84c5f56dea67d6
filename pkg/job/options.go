package job

import (
	"context"
	"log/slog"
)

type config struct {
	registry   *registry
	queues     map[string]int
	schedules  []schedule
	logger     *slog.Logger
	maxWorkers int
}

type schedule struct {
	name string
	expr string
	fn   func(context.Context) error
}

// Option configures a Manager.
type Option func(*config)

// WithTask registers a task whose Handle receives a decoded payload of type P.
func WithTask[P any, T payloadTask[P]](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), typedExecutor[P, T]{task: task})
	}
}

// WithScheduledTask registers a periodic task. Schedule must return a
// five-field cron expression.
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, schedule{
			name: task.Name(),
			expr: task.Schedule(),
			fn:   task.Handle,
		})
	}
}

// WithQueue declares a named queue served by the given number of workers.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue. Default: 10.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
