package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client-chosen key of a retryable request
const IdempotencyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the accepted header value
const MaxIdempotencyKeyLength = 128

// DefaultIdempotencyTTL is how long a used key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers request keys for a limited time
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a request whose Idempotency-Key was already used by
// the same user with 409. Requests without the header pass through. A key
// whose request failed (status >= 400) is released so the client can retry.
func Idempotency(store IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithCode(c, dto.ErrCodeBadRequest,
				IdempotencyHeader+" must be at most "+strconv.Itoa(MaxIdempotencyKeyLength)+" characters")
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		if session := GetSession(c); session != nil {
			scoped = strconv.FormatInt(session.UserID, 10) + " " + scoped
		}

		claimed, err := store.Claim(c.Request.Context(), scoped, ttl)
		if err != nil {
			logger.GetGinLogger(c).Warn("Idempotency store unavailable", zap.Error(err))
			abortWithCode(c, dto.ErrCodeUnavailable, "Request deduplication is unavailable, retry later")
			return
		}
		if !claimed {
			abortWithCode(c, dto.ErrCodeDuplicateRequest, "A request with this "+IdempotencyHeader+" was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// Detached from the request so a cancelled client still frees the key
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 2*time.Second)
			defer cancel()
			if err := store.Release(ctx, scoped); err != nil {
				logger.GetGinLogger(c).Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
