package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// slidingWindowScript performs the check-and-admit cycle as one atomic
// unit: expire old entries, count the window, and insert only if a slot
// remains. Running it as a script guarantees two concurrent callers for
// the same identity never both take the last slot.
const slidingWindowScript = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local max_requests = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)
local count = redis.call('ZCARD', key)
if count < max_requests then
	redis.call('ZADD', key, now, member)
	redis.call('EXPIRE', key, ttl)
	return 1
end
return 0
`

// RedisLimiter implements Limiter over a shared Redis instance using a
// sorted set of request timestamps per identity.
type RedisLimiter struct {
	client *redis.Client
	config *Config
	script *redis.Script
	seq    uint64

	// now is swappable so tests can drive the window directly.
	now func() time.Time
}

// NewRedisLimiter creates a Redis-backed sliding-window limiter.
func NewRedisLimiter(client *redis.Client, config *Config) *RedisLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &RedisLimiter{
		client: client,
		config: config,
		script: redis.NewScript(slidingWindowScript),
		now:    time.Now,
	}
}

// Allow reports whether a request from identity is admitted. Store errors
// reject the request.
func (r *RedisLimiter) Allow(ctx context.Context, identity string) bool {
	key := r.config.KeyPrefix + identity

	now := float64(r.now().UnixNano()) / float64(time.Second)
	windowStart := now - r.config.Window.Seconds()

	// The sequence suffix keeps two requests landing on the same clock
	// reading from collapsing into one sorted-set member.
	member := fmt.Sprintf("%.6f-%d", now, atomic.AddUint64(&r.seq, 1))

	result, err := r.script.Run(ctx, r.client, []string{key},
		windowStart,
		now,
		r.config.MaxRequests,
		int(r.config.RetentionTTL().Seconds()),
		member,
	).Int()
	if err != nil {
		log.WithError(err).WithField("identity", identity).
			Error("Rate limit check failed, rejecting request")
		return false
	}

	return result == 1
}
