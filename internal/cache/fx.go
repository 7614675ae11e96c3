package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

// Module wires the redis-backed cache. Without a redis address the cache
// falls back to the in-process store so the app still serves.
var Module = fx.Module("cache",
	fx.Provide(newStore, NewManager),
)

func newStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Store {
	if cfg.RedisAddr == "" {
		log.Warn("redis address not configured, using in-process cache")
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisStore(client)
}
