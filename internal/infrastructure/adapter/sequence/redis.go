package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// DefaultKeyPrefix namespaces the tracker keys
const DefaultKeyPrefix = "staff-registry:upload"

// claimScript returns -1 when the index was accepted, -2 when no sequence exists,
// and the expected index otherwise.
var claimScript = redis.NewScript(`
local index = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])
if index == 0 then
	redis.call('SET', KEYS[1], 1, 'PX', ttl)
	return -1
end
local expected = redis.call('GET', KEYS[1])
if not expected then
	return -2
end
expected = tonumber(expected)
if expected ~= index then
	return expected
end
redis.call('SET', KEYS[1], index + 1, 'PX', ttl)
return -1
`)

// Redis client contract the tracker needs
type Client interface {
	redis.Scripter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisTracker keeps chunk sequences in redis so every API instance sees the same expectation
type RedisTracker struct {
	client Client
	prefix string
	ttl    time.Duration
}

// NewRedisTracker creates a redis tracker
func NewRedisTracker(client Client, prefix string, ttl time.Duration) *RedisTracker {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisTracker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisTracker) key(sessionID string) string {
	return fmt.Sprintf("%s:%s:next", r.prefix, sessionID)
}

// Claim accepts index atomically against the stored expectation
func (r *RedisTracker) Claim(ctx context.Context, sessionID string, index int) error {
	expected, err := claimScript.Run(ctx, r.client, []string{r.key(sessionID)}, index, r.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("claim chunk %d of session %s: %w", index, sessionID, err)
	}

	switch {
	case expected == -1:
		return nil
	case expected == -2:
		return fmt.Errorf("%w: session %s has not sent chunk 0", errs.ErrChunkOutOfOrder, sessionID)
	default:
		return fmt.Errorf("%w: expected chunk %d, got %d", errs.ErrChunkOutOfOrder, expected, index)
	}
}

// Forget deletes the session key
func (r *RedisTracker) Forget(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("forget session %s: %w", sessionID, err)
	}
	return nil
}

// Options configures NewRedisClient
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to redis and checks the connection
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
