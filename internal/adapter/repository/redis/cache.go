package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// BalanceCache implements usecase.BalanceCache using Redis. Each account owns
// one hash keyed by as-of date, so invalidation is a single DEL per account.
type BalanceCache struct {
	client *redis.Client
	prefix string
}

// NewBalanceCache creates a new BalanceCache.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
	}
}

// Get returns the cached balance, or nil on a miss.
func (c *BalanceCache) Get(ctx context.Context, accountID, asOf string) (*usecase.CachedBalance, error) {
	raw, err := c.client.HGet(ctx, c.prefix+accountID, asOf).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached usecase.CachedBalance
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// Set stores value under the account hash and refreshes the hash TTL.
func (c *BalanceCache) Set(ctx context.Context, accountID, asOf string, value usecase.CachedBalance, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	key := c.prefix + accountID
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, asOf, raw)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Invalidate drops every cached as-of balance of the given accounts.
func (c *BalanceCache) Invalidate(ctx context.Context, accountIDs ...string) error {
	if len(accountIDs) == 0 {
		return nil
	}

	keys := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		keys[i] = c.prefix + id
	}
	return c.client.Del(ctx, keys...).Err()
}
