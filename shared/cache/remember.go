package cache

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Remember returns the cached value under key, or calls load and caches its result for ttl seconds.
// Cache failures only cost a trip to load.
func Remember[T any](ctx context.Context, c RedisCache, key string, ttl int, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	fresh, err := load(ctx)
	if err != nil {
		return fresh, err
	}

	if err := c.Save(ctx, key, fresh, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("result not cached")
	}

	return fresh, nil
}
