// Package job runs background tasks on River, the Postgres-native queue.
//
// Tasks are plain structs discovered by method set. A payload task has
// Name and Handle(ctx, P); a periodic task has Name, Schedule (five-field
// cron) and Handle(ctx):
//
//	type GenerateThumbnails struct{ ... }
//
//	func (t *GenerateThumbnails) Name() string { return "generate_thumbnails" }
//	func (t *GenerateThumbnails) Handle(ctx context.Context, p ThumbnailPayload) error { ... }
//
//	m, err := job.NewManager(pool,
//	    job.WithTask(tasks.NewGenerateThumbnails(...)),
//	    job.WithScheduledTask(tasks.NewSweepTempFiles(...)),
//	    job.WithQueue("file_queue", 4),
//	    job.WithLogger(log),
//	)
//
//	err = m.Enqueue(ctx, "generate_thumbnails", payload, job.InQueue("file_queue"))
//
// Every task shares one River job kind and is dispatched by name through a
// registry. River's own tables are created by [Migrate].
package job
