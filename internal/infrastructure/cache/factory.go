// Package cache holds short-lived shared state such as idempotency keys.
package cache

import (
	"context"
	"time"

	"github.com/pos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStore remembers request keys for a limited time
type IdempotencyStore interface {
	// Claim records key for ttl. It returns false when the key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so the request it guards can be retried
	Release(ctx context.Context, key string) error
	// Close releases the store's resources
	Close() error
}

var (
	_ IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
	_ IdempotencyStore = (*RedisIdempotencyStore)(nil)
)

// NewIdempotencyStore returns a Redis backed store when Redis is enabled and
// reachable. Otherwise it falls back to an in-memory store, which does not
// share keys between instances.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Enabled {
		store, err := NewRedisIdempotencyStore(ctx, cfg)
		if err == nil {
			logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
			return store
		}
		logger.Warn("Redis unavailable, using in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
	}
	return NewInMemoryIdempotencyStore()
}
