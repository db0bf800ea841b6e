package locking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can block other runs.
// A live holder keeps the lock past the TTL only by calling Refresh; a
// single step between refreshes that outlasts the TTL lets another run in.
const DefaultLockTTL = 2 * time.Minute

// releaseScript deletes the key only if it still carries our token, so an
// expired holder never releases a lock someone else acquired since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript resets the expiry only while the key still carries our token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLockManager uses SET NX PX with a random token per acquisition.
type RedisLockManager struct {
	client *redis.Client
	ttl    time.Duration
}

var _ LockManager = (*RedisLockManager)(nil)

func NewRedisLockManager(client *redis.Client, ttl time.Duration) *RedisLockManager {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLockManager{client: client, ttl: ttl}
}

// NewRedisLockManagerFromURL parses a redis:// URL and pings the server.
func NewRedisLockManagerFromURL(ctx context.Context, redisURL string, ttl time.Duration) (*RedisLockManager, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisLockManager(client, ttl), nil
}

func (m *RedisLockManager) TryLock(ctx context.Context, lockKey string) (LockHandle, bool, error) {
	token := uuid.NewString()
	ok, err := m.client.SetNX(ctx, lockKey, token, m.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", lockKey, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &redisHandle{client: m.client, key: lockKey, token: token, ttl: m.ttl}, true, nil
}

func (m *RedisLockManager) WithLock(ctx context.Context, lockKey string, fn func(context.Context) error) error {
	return withLock(ctx, m, lockKey, fn)
}

func (m *RedisLockManager) Close() error {
	return m.client.Close()
}

type redisHandle struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// Refresh extends the lock by a full TTL from now.
func (h *redisHandle) Refresh(ctx context.Context) error {
	n, err := refreshScript.Run(ctx, h.client, []string{h.key}, h.token, h.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("refresh lock %s: %w", h.key, err)
	}
	if n == 0 {
		return fmt.Errorf("refresh lock %s: %w", h.key, ErrLockLost)
	}
	return nil
}

func (h *redisHandle) Unlock(ctx context.Context) error {
	if err := releaseScript.Run(ctx, h.client, []string{h.key}, h.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", h.key, err)
	}
	return nil
}
