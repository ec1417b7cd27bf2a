// Package cache provides a Redis-backed cache for projected verification
// statuses. The cache is strictly best-effort: every failure falls through to
// the ledger, and mutations invalidate rather than update.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"veriportal/internal/kyc"
)

const statusKeyPrefix = "kyc:status:"

// StatusCache caches one projected status per principal with a short TTL.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

// Get returns the cached status. The second return is false on miss or on
// any Redis failure; the caller falls through to the ledger.
func (c *StatusCache) Get(ctx context.Context, principal string) (kyc.VerificationStatus, bool) {
	value, err := c.client.Get(ctx, statusKeyPrefix+principal).Result()
	if err != nil {
		// redis.Nil is a plain miss; anything else is a degraded cache,
		// which reads the same way since the ledger stays authoritative.
		return "", false
	}
	return kyc.VerificationStatus(value), true
}

// Set stores the projected status with the configured TTL. Errors are
// returned so callers can log them, but are never fatal.
func (c *StatusCache) Set(ctx context.Context, principal string, status kyc.VerificationStatus) error {
	return c.client.Set(ctx, statusKeyPrefix+principal, string(status), c.ttl).Err()
}

// Invalidate drops the cached status after a mutation so the next read
// reflects the new ledger state.
func (c *StatusCache) Invalidate(ctx context.Context, principal string) error {
	return c.client.Del(ctx, statusKeyPrefix+principal).Err()
}
