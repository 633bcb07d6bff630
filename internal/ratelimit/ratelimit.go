package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limit describes a token bucket: Limit tokens refilled evenly over one Unit.
type Limit struct {
	Limit int
	Unit  string // "second", "minute", "hour", "day"
}

// Storage decides whether a request identified by key is allowed under the
// given limit, consuming a token when it is.
type Storage interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
}

func parseUnit(unit string) (time.Duration, error) {
	switch unit {
	case "second":
		return time.Second, nil
	case "minute":
		return time.Minute, nil
	case "hour":
		return time.Hour, nil
	case "day":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown rate limit unit %q", unit)
	}
}

type tokenBucket struct {
	mu             sync.Mutex
	tokens         float64
	lastRefill     time.Time
	capacity       float64
	refillRate     float64
	windowDuration time.Duration
}

func (b *tokenBucket) consume(n float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	}
	b.lastRefill = now

	if b.tokens >= n {
		b.tokens -= n
		return true
	}
	return false
}

// InMemoryStorage keeps token buckets in process memory. Suitable for a
// single instance; use RedisStorage when running more than one replica.
type InMemoryStorage struct {
	mu          sync.Mutex
	buckets     map[string]*tokenBucket
	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

func NewInMemoryStorage() *InMemoryStorage {
	storage := &InMemoryStorage{
		buckets:     make(map[string]*tokenBucket),
		cleanup:     time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan struct{}),
	}

	go storage.cleanupUnusedBuckets()

	return storage
}

// Stop stops the background cleanup goroutine.
func (s *InMemoryStorage) Stop() {
	s.cleanup.Stop()
	close(s.stopCleanup)
}

func (s *InMemoryStorage) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	duration, err := parseUnit(limit.Unit)
	if err != nil {
		return false, err
	}

	bucketKey := fmt.Sprintf("%s:%s", key, limit.Unit)

	s.mu.Lock()
	bucket, exists := s.buckets[bucketKey]
	if !exists {
		capacity := float64(limit.Limit)
		bucket = &tokenBucket{
			tokens:         capacity,
			lastRefill:     time.Now(),
			capacity:       capacity,
			refillRate:     capacity / duration.Seconds(),
			windowDuration: duration,
		}
		s.buckets[bucketKey] = bucket
	}
	s.mu.Unlock()

	return bucket.consume(1), nil
}

func (s *InMemoryStorage) cleanupUnusedBuckets() {
	for {
		select {
		case <-s.cleanup.C:
			s.mu.Lock()
			now := time.Now()
			for key, bucket := range s.buckets {
				bucket.mu.Lock()
				if now.Sub(bucket.lastRefill) > bucket.windowDuration*2 {
					delete(s.buckets, key)
				}
				bucket.mu.Unlock()
			}
			s.mu.Unlock()
		case <-s.stopCleanup:
			return
		}
	}
}
