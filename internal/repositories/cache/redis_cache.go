// Package cache holds the Redis-backed advisory balance cache.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/middleware"
)

// DefaultBalanceTTL bounds staleness when an invalidation is ever missed.
const DefaultBalanceTTL = 5 * time.Minute

// RedisBalanceCache caches per-party closing balances in Redis. The cache is
// advisory: every method degrades to a no-op or a miss when Redis is down or
// the client is nil, so callers fall back to recomputing from the store.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBalanceCache creates a balance cache over the given client. A nil
// client yields a cache that always misses. Non-positive ttl falls back to
// DefaultBalanceTTL.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	if ttl <= 0 {
		ttl = DefaultBalanceTTL
	}
	return &RedisBalanceCache{client: client, ttl: ttl}
}

var _ portssvc.PartyBalanceCache = (*RedisBalanceCache)(nil)

func balanceKey(userID, partyName string) string {
	return "balance:" + userID + ":" + partyName
}

// GetClosingBalance returns the cached balance and whether it was present.
func (c *RedisBalanceCache) GetClosingBalance(ctx context.Context, userID string, partyName string) (decimal.Decimal, bool) {
	if c.client == nil {
		return decimal.Zero, false
	}

	val, err := c.client.Get(ctx, balanceKey(userID, partyName)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Warn("Balance cache read failed", slog.String("party", partyName), slog.String("error", err.Error()))
		}
		return decimal.Zero, false
	}

	balance, err := decimal.NewFromString(val)
	if err != nil {
		// Unparseable value, drop it so the next write repopulates.
		c.client.Del(ctx, balanceKey(userID, partyName))
		return decimal.Zero, false
	}
	return balance, true
}

// SetClosingBalance stores the balance with the cache's TTL.
func (c *RedisBalanceCache) SetClosingBalance(ctx context.Context, userID string, partyName string, balance decimal.Decimal) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, balanceKey(userID, partyName), balance.String(), c.ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Balance cache write failed", slog.String("party", partyName), slog.String("error", err.Error()))
	}
}

// InvalidateParty drops whatever is cached for (userID, partyName).
func (c *RedisBalanceCache) InvalidateParty(ctx context.Context, userID string, partyName string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, balanceKey(userID, partyName)).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Balance cache invalidation failed", slog.String("party", partyName), slog.String("error", err.Error()))
	}
}
