package repository

import (
	"context"
	"time"
)

// Locker is a per-key critical section. The store offers no transactions
// across a load-modify-store cycle, so every orchestrator takes the user's
// lock before loading and releases it after persisting.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
