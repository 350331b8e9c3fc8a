// Package redis provides a read-through cache in front of the suspension
// registry. Suspensions are never lifted, so only positive answers are cached.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/suspension"
	goredis "github.com/redis/go-redis/v9"
)

const suspensionKeyPrefix = "suspended:"

// Client is the subset of the go-redis client used by the cache
type Client interface {
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// SuspensionCache decorates a suspension.Repository. Cache failures are
// logged and fall back to the underlying registry.
type SuspensionCache struct {
	next   suspension.Repository
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSuspensionCache wraps next with a Redis cache. A zero ttl keeps keys forever.
func NewSuspensionCache(logger *slog.Logger, next suspension.Repository, client Client, ttl time.Duration) *SuspensionCache {
	return &SuspensionCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func suspensionKey(userID string) string {
	return suspensionKeyPrefix + userID
}

// Append writes through to the registry and then marks the user in the cache
func (c *SuspensionCache) Append(ctx context.Context, entry *suspension.Entry) error {
	if err := c.next.Append(ctx, entry); err != nil {
		return err
	}
	c.remember(ctx, entry.UserID)
	return nil
}

// IsSuspended answers from the cache when the user is known to be suspended
func (c *SuspensionCache) IsSuspended(ctx context.Context, userID string) (bool, error) {
	n, err := c.client.Exists(ctx, suspensionKey(userID)).Result()
	switch {
	case err != nil:
		c.logger.Warn("Suspension cache lookup failed", "user_id", userID, "error", err)
	case n > 0:
		return true, nil
	}

	suspended, err := c.next.IsSuspended(ctx, userID)
	if err != nil {
		return false, err
	}
	if suspended {
		c.remember(ctx, userID)
	}
	return suspended, nil
}

// ListByUser is not cached
func (c *SuspensionCache) ListByUser(ctx context.Context, userID string) ([]*suspension.Entry, error) {
	return c.next.ListByUser(ctx, userID)
}

func (c *SuspensionCache) remember(ctx context.Context, userID string) {
	if err := c.client.Set(ctx, suspensionKey(userID), "1", c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache suspension", "user_id", userID, "error", err)
	}
}

var _ suspension.Repository = (*SuspensionCache)(nil)
