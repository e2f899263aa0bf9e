package faucet

import (
	"context"
	"sync"
	"time"
)

type memoryLimiter struct {
	mu        sync.Mutex
	lastGrant map[string]time.Time
	cooldown  time.Duration
	now       func() time.Time
}

// NewMemoryLimiter creates a process-local limiter. Grants do not survive a
// restart; use the Redis limiter when persistence across sessions matters.
func NewMemoryLimiter(cooldown time.Duration) Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &memoryLimiter{
		lastGrant: make(map[string]time.Time),
		cooldown:  cooldown,
		now:       time.Now,
	}
}

func (l *memoryLimiter) TryGrant(_ context.Context, address string) (Grant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastGrant[address]; ok {
		elapsed := now.Sub(last)
		if elapsed < l.cooldown {
			return Grant{RetryAfter: l.cooldown - elapsed}, nil
		}
	}

	l.lastGrant[address] = now
	return Grant{Granted: true, Amount: GrantAmount()}, nil
}
