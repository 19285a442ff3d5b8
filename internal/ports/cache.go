package ports

import (
	"context"
	"time"
)

// Cache is a key-value store for view state such as the active filter.
// Adapters may be backed by memory or SQLite.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
