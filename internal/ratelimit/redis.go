package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript admits or denies atomically: prune expired
// members, count, then either report the oldest member's score (for
// retry-after) or add the new request. Scores are unix milliseconds.
const slidingWindowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    return {0, count, oldest[2]}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)

return {1, count + 1, '0'}
`

// RedisLimiter is a sliding-window limiter shared across processes.
type RedisLimiter struct {
	rdb         redis.UniversalClient
	script      *redis.Script
	maxRequests int
	windowSize  time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(rdb redis.UniversalClient, maxRequests int, windowSize time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:         rdb,
		script:      redis.NewScript(slidingWindowScript),
		maxRequests: maxRequests,
		windowSize:  windowSize,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, callerID string) (Decision, error) {
	key := "dongcha:rl:" + callerID
	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	res, err := l.script.Run(ctx, l.rdb, []string{key},
		l.maxRequests, l.windowSize.Milliseconds(), now, member).Slice()
	if err != nil {
		// Fail open on backend errors: admission control is load
		// shedding, not a security boundary.
		return Decision{Allowed: true, Remaining: l.maxRequests}, err
	}
	if len(res) != 3 {
		return Decision{Allowed: true, Remaining: l.maxRequests}, fmt.Errorf("unexpected script result: %v", res)
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)

	if allowed == 1 {
		return Decision{
			Allowed:   true,
			Remaining: l.maxRequests - int(count),
		}, nil
	}

	var retryAfter time.Duration
	if s, ok := res[2].(string); ok {
		if oldest, err := strconv.ParseFloat(s, 64); err == nil && oldest > 0 {
			elapsed := time.Duration(now-int64(oldest)) * time.Millisecond
			retryAfter = l.windowSize - elapsed
		}
	}
	if retryAfter < 0 {
		retryAfter = 0
	}

	return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
}
