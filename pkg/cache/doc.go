// Package cache provides a small generic key-value cache with an
// in-process LRU backend and a Redis backend.
//
// Set takes a TTL: a positive duration expires the entry after that long,
// zero applies the cache default. [NewMemory] keeps entries in a bounded
// expirable LRU, so its default TTL is also the upper bound for every entry.
//
//	stats := cache.NewMemory[Stats](cache.WithMaxEntries(16), cache.WithDefaultTTL(10*time.Second))
//	v, err := cache.GetOrSet(ctx, stats, "stats", func(ctx context.Context) (Stats, time.Duration, error) {
//	    s, err := repo.Stats(ctx)
//	    return s, 0, err
//	})
//
// [NewRedis] stores JSON-encoded values under a key prefix and is what the
// authentication token store uses:
//
//	tokens := cache.NewRedis[string](client, nil, cache.WithKeyPrefix("auth_"), cache.WithRedisDefaultTTL(24*time.Hour))
//
// [GetOrSet] collapses concurrent misses for the same key into one call.
package cache
