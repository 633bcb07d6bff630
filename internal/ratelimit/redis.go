package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage implements Storage on Redis so limits hold across replicas.
// Buckets are Redis hashes updated atomically by a Lua script, with
// expiration tied to the limit window.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStorage creates a Redis-backed rate limiter storage. keyPrefix
// defaults to "rate_limit:" when empty.
func NewRedisStorage(client *redis.Client, keyPrefix string) *RedisStorage {
	if keyPrefix == "" {
		keyPrefix = "rate_limit:"
	}

	return &RedisStorage{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

const consumeScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refillRate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local tokensToConsume = tonumber(ARGV[4])
	local windowSeconds = tonumber(ARGV[5])

	local bucketData = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokensStr = bucketData[1]
	local lastRefillStr = bucketData[2]

	local tokens
	local lastRefill
	if tokensStr == false or tokensStr == nil then
		tokens = capacity
		lastRefill = now
	else
		tokens = tonumber(tokensStr)
		if tokens == nil then
			tokens = capacity
		end
		lastRefill = tonumber(lastRefillStr)
		if lastRefill == nil then
			lastRefill = now
		end
	end

	local elapsed = (now - lastRefill) / 1000000000

	if elapsed > 0 then
		local tokensToAdd = elapsed * refillRate
		tokens = math.min(capacity, tokens + tokensToAdd)
	end

	if tokens >= tokensToConsume then
		tokens = tokens - tokensToConsume

		redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', tostring(now))
		redis.call('EXPIRE', key, math.ceil(windowSeconds * 1.1))

		return 1
	else
		redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', tostring(now))
		redis.call('EXPIRE', key, math.ceil(windowSeconds * 1.1))

		return 0
	end
`

// Allow checks if a request is allowed and consumes a token if available.
func (r *RedisStorage) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	duration, err := parseUnit(limit.Unit)
	if err != nil {
		return false, err
	}

	bucketKey := fmt.Sprintf("%s%s:%s", r.keyPrefix, key, limit.Unit)
	capacity := float64(limit.Limit)
	refillRate := capacity / duration.Seconds()
	now := time.Now().UnixNano()

	result, err := r.client.Eval(ctx, consumeScript, []string{bucketKey},
		capacity,
		refillRate,
		now,
		1.0,
		duration.Seconds(),
	).Result()

	if err != nil {
		return false, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return result.(int64) == 1, nil
}

// Ping checks if the Redis connection is healthy.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
