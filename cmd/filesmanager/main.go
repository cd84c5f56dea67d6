package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/filesmanager"
	"github.com/dmitrymomot/filesmanager/handlers"
	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/internal/config"
	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/repository"
	"github.com/dmitrymomot/filesmanager/internal/tasks"
	"github.com/dmitrymomot/filesmanager/internal/users"
	"github.com/dmitrymomot/filesmanager/middlewares"
	"github.com/dmitrymomot/filesmanager/pkg/cache"
	"github.com/dmitrymomot/filesmanager/pkg/db"
	"github.com/dmitrymomot/filesmanager/pkg/job"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/redis"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.ParseLevel(cfg.LogLevel),
		middlewares.RequestIDExtractor(),
		middlewares.UserIDExtractor(),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		_ = logger.FlushSentry()(context.Background())
		os.Exit(1)
	}
}

// run wires the service from cfg and blocks until shutdown.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var (
		shutdown []func(context.Context) error
		checks   []filesmanager.HealthOption
		status   []handlers.StatusOption
	)

	// Metadata.
	var (
		pool      *pgxpool.Pool
		fileRepo  files.Repository
		usersRepo users.Repository
	)
	switch cfg.MetadataDriver {
	case config.DriverPostgres:
		var err error
		pool, err = db.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, db.Shutdown(pool))

		if err := repository.Migrate(ctx, pool, cfg.DB.MigrationsTable, log); err != nil {
			pool.Close()
			return err
		}
		fileRepo = repository.NewFiles(pool)
		usersRepo = repository.NewUsers(pool)

		checks = append(checks, filesmanager.WithReadinessCheck("db", db.Healthcheck(pool)))
		status = append(status, handlers.WithDBCheck(db.Healthcheck(pool)))
	default:
		log.Warn("using in-memory metadata; records are lost on restart")
		fileRepo = repository.NewMemoryFiles()
		usersRepo = repository.NewMemoryUsers()
	}

	// Tokens.
	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return closeAll(err, shutdown)
	}
	shutdown = append(shutdown, redis.Shutdown(rdb))
	checks = append(checks, filesmanager.WithReadinessCheck("redis", redis.Healthcheck(rdb)))
	status = append(status, handlers.WithRedisCheck(redis.Healthcheck(rdb)))

	tokens := auth.NewTokens(
		cache.NewRedis[string](rdb, nil, cache.WithKeyPrefix("auth_")),
		cfg.AuthTokenTTL,
	)

	// Blobs.
	var store storage.Storage
	var local *storage.Local
	switch cfg.BlobDriver {
	case config.BlobS3:
		store, err = storage.NewS3(cfg.S3)
	default:
		local, err = storage.NewLocal(cfg.FolderPath)
		store = local
	}
	if err != nil {
		return closeAll(err, shutdown)
	}

	fileOpts := []files.Option{
		files.WithLogger(log),
		files.WithEnqueueTimeout(cfg.JobEnqueueTimeout),
	}

	// Jobs.
	var jobs *job.Manager
	if cfg.JobsEnabled && pool != nil {
		if err := job.Migrate(ctx, pool, log); err != nil {
			return closeAll(err, shutdown)
		}

		jobOpts := []job.Option{
			job.WithTask[files.ThumbnailPayload](tasks.NewGenerateThumbnails(fileRepo, store, cfg.ThumbnailSizes, log)),
			job.WithQueue(files.ThumbnailQueue, cfg.JobWorkers),
			job.WithLogger(log),
		}
		if local != nil {
			jobOpts = append(jobOpts, job.WithScheduledTask(tasks.NewSweepTempFiles(local, tasks.DefaultTempMaxAge, log)))
		}

		jobs, err = job.NewManager(pool, jobOpts...)
		if err != nil {
			return closeAll(err, shutdown)
		}
		fileOpts = append(fileOpts, files.WithDispatcher(jobs))
		checks = append(checks, filesmanager.WithReadinessCheck("jobs", job.Healthcheck(jobs)))
	}

	fileSvc := files.NewService(fileRepo, files.NewBlobStore(store, cfg.BlobWriteTimeout), fileOpts...)
	userSvc := users.NewService(usersRepo)

	status = append(status, handlers.WithStatsCache(
		cache.NewMemory[handlers.StatsResponse](cache.WithMaxEntries(1)),
		cfg.StatsCacheTTL,
	))

	mw := []filesmanager.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
	}
	opts := []filesmanager.Option{
		filesmanager.WithLogger(log),
		filesmanager.WithErrorHandler(middlewares.ErrorHandler(handlers.ErrorMappings()...)),
		filesmanager.WithNotFoundHandler(notFound),
		filesmanager.WithHandlers(
			handlers.NewUsers(userSvc, tokens),
			handlers.NewFiles(fileSvc, tokens),
			handlers.NewStatus(userSvc, fileSvc, status...),
		),
		filesmanager.WithHealthChecks(checks...),
	}
	if cfg.MetricsEnabled {
		metrics := middlewares.NewMetrics("filesmanager")
		mw = append(mw, metrics.Middleware())
		opts = append(opts, filesmanager.WithMount("/metrics", metrics.Handler()))
	}
	if cfg.RequestTimeout > 0 {
		mw = append(mw, middlewares.Timeout(cfg.RequestTimeout))
	}
	opts = append(opts, filesmanager.WithMiddleware(mw...))
	if jobs != nil {
		opts = append(opts, filesmanager.WithJobs(jobs))
	}

	runOpts := []filesmanager.RunOption{
		filesmanager.Logger(log),
		filesmanager.ShutdownTimeout(cfg.ShutdownTimeout),
		filesmanager.WithContext(ctx),
	}
	for _, fn := range shutdown {
		runOpts = append(runOpts, filesmanager.ShutdownHook(fn))
	}
	runOpts = append(runOpts, filesmanager.ShutdownHook(logger.FlushSentry()))

	return filesmanager.New(opts...).Run(cfg.HTTPAddr, runOpts...)
}

func notFound(filesmanager.Context) error {
	return filesmanager.NewHTTPError(http.StatusNotFound, "Not found")
}

// closeAll runs the hooks collected so far after a failed startup.
func closeAll(err error, hooks []func(context.Context) error) error {
	for i := len(hooks) - 1; i >= 0; i-- {
		_ = hooks[i](context.Background())
	}
	return err
}
