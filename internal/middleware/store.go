package middleware

import (
	"context"
	"time"
)

// Store is the key/value surface the cache and idempotence middlewares need.
// *redis.Client from internal/pkg/redis satisfies it; Get returns "" for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ReservingStore adds an atomic set-if-absent, used to claim idempotence keys.
type ReservingStore interface {
	Store
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
}
