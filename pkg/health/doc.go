// Package health runs named dependency checks and serves probe endpoints.
//
// [LivenessHandler] always answers OK while the process is up.
// [ReadinessHandler] runs every registered [CheckFunc] in parallel under a
// shared timeout and answers 503 when any of them fails. [Run] exposes the
// same aggregation for handlers that render their own status payload.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}))
package health
