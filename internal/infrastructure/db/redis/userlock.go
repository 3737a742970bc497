package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockTTL    = 5 * time.Second
	retryDelay = 20 * time.Millisecond
)

// UserLock provides per-user mutual exclusion backed by Redis.
// Key format: lock:user:<user_id>, value is a random owner token.
// The TTL bounds how long a crashed holder can block an account.
type UserLock struct {
	client *redis.Client
}

// NewUserLock creates a UserLock wrapping the given Redis client.
func NewUserLock(client *redis.Client) *UserLock {
	return &UserLock{client: client}
}

// Lock acquires the per-user lock, polling until it is held or ctx is done.
// The returned function releases the lock; release is a no-op when the TTL
// already expired and another holder took over.
func (l *UserLock) Lock(ctx context.Context, userID string) (func(), error) {
	key := l.key(userID)
	token := newToken()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("user lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("user lock: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}

	unlock := func() {
		// Release only while still the owner.
		releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		val, err := l.client.Get(releaseCtx, key).Result()
		if err == nil && val == token {
			l.client.Del(releaseCtx, key)
		}
	}
	return unlock, nil
}

func (l *UserLock) key(userID string) string {
	return "lock:user:" + userID
}

func newToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
