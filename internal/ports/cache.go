package ports

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// IncrWithTTL backs the fixed-window abuse counters; the TTL is applied
	// on first increment so the window expires on its own.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
