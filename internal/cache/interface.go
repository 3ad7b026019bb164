package cache

import (
	"context"
	"time"
)

// Cache is a read-through JSON cache in front of the catalog.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
