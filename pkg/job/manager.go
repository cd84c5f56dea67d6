package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/robfig/cron/v3"
)

const defaultMaxWorkers = 10

// Manager enqueues and executes tasks through a River client.
type Manager struct {
	pool     *pgxpool.Pool
	client   *river.Client[pgx.Tx]
	registry *registry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager builds the River client. Jobs may be enqueued before Start.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{
		registry:   newRegistry(),
		queues:     make(map[string]int),
		logger:     slog.New(slog.DiscardHandler),
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	queues := map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
	}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	periodic := make([]*river.PeriodicJob, 0, len(cfg.schedules))
	for _, s := range cfg.schedules {
		sched, err := parseCronSchedule(s.expr)
		if err != nil {
			return nil, fmt.Errorf("job: invalid cron schedule %q for %s: %w", s.expr, s.name, err)
		}
		name := s.name
		periodic = append(periodic, river.NewPeriodicJob(sched,
			func() (river.JobArgs, *river.InsertOpts) {
				return taskArgs{Task: name}, nil
			},
			nil,
		))
		cfg.registry.register(name, funcExecutor(s.fn))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &worker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:     pool,
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, task string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(task); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}

	args, insert, err := buildArgs(task, payload, opts...)
	if err != nil {
		return err
	}

	if _, err := m.client.Insert(ctx, args, insert); err != nil {
		return fmt.Errorf("job: enqueue %s: %w", task, err)
	}
	return nil
}

// Start begins working queues and firing periodic jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

func (m *Manager) isStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

type worker struct {
	river.WorkerDefaults[taskArgs]
	registry *registry
	logger   *slog.Logger
}

func (w *worker) Work(ctx context.Context, j *river.Job[taskArgs]) error {
	exec, ok := w.registry.get(j.Args.Task)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, j.Args.Task)
	}

	log := w.logger.With(
		slog.String("task", j.Args.Task),
		slog.Int64("job_id", j.ID),
		slog.Int("attempt", j.Attempt),
	)
	log.DebugContext(ctx, "executing task")

	if err := exec.Execute(ctx, j.Args.Payload); err != nil {
		log.ErrorContext(ctx, "task failed", slog.Any("error", err))
		return err
	}
	return nil
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// StartFunc adapts Start to a startup hook.
func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

// Shutdown adapts Stop to a shutdown hook. A manager that never started
// shuts down cleanly.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}
