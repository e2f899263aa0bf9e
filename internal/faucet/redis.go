package faucet

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const grantKeyPrefix = "faucet:grant:v1:"

// RedisLimiter tracks grants in Redis so the cooldown survives session
// disconnects and process restarts. SetNX makes the check-then-write atomic
// across concurrent requests for the same address.
type RedisLimiter struct {
	cache    *redis.Client
	cooldown time.Duration
}

// NewRedisLimiter builds a limiter backed by the provided Redis client.
func NewRedisLimiter(cache *redis.Client, cooldown time.Duration) *RedisLimiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &RedisLimiter{cache: cache, cooldown: cooldown}
}

// TryGrant reserves the cooldown window for address. Unlike the login rate
// limit middleware this does not fail open: a cache error denies nothing and
// grants nothing, it is surfaced to the caller.
func (l *RedisLimiter) TryGrant(ctx context.Context, address string) (Grant, error) {
	key := grantKeyPrefix + address

	set, err := l.cache.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.cooldown).Result()
	if err != nil {
		return Grant{}, fmt.Errorf("faucet grant reservation: %w", err)
	}
	if set {
		return Grant{Granted: true, Amount: GrantAmount()}, nil
	}

	remaining, err := l.cache.PTTL(ctx, key).Result()
	if err != nil {
		return Grant{}, fmt.Errorf("faucet cooldown lookup: %w", err)
	}
	if remaining < 0 {
		// Key expired between SetNX and PTTL; treat as a full window to
		// keep the denial conservative.
		remaining = l.cooldown
	}
	return Grant{RetryAfter: remaining}, nil
}
