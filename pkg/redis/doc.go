// Package redis opens the go-redis client used for authentication tokens
// and shared caches.
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// [Open] accepts redis:// and rediss:// URLs and retries the initial ping
// with linear backoff. [Healthcheck] and [Shutdown] plug into the readiness
// probe and the shutdown hooks.
package redis
