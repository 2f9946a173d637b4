package ports

import (
	"context"
	"time"
)

// Cache is a read-through byte cache for hot lookups. A miss is (nil, false,
// nil); cache failures surface as errors and callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
