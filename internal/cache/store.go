package cache

import (
	"context"
	"time"
)

// Store is a byte-level cache backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// PatternDeleter is implemented by stores that can remove keys by prefix.
// Stores without it fall back to a full flush on scoped invalidation.
type PatternDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}
