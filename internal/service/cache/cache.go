package cache

import (
	"context"
	"time"
)

// BytesCache stores raw bytes with a TTL. Handlers use it for responses that
// are expensive to fetch, such as model statistics.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
