package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter gates requests by key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

const staleBucketAge = time.Hour

// TokenBucketLimiter is an in-process token bucket limiter. Buckets refill
// continuously; a burst can spend the whole bucket at once.
type TokenBucketLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	capacity float64
	perSec   float64
	sweepAt  time.Time
}

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewTokenBucketLimiter creates a limiter refilling capacity tokens per
// refill period.
func NewTokenBucketLimiter(capacity int, refillPeriod time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets:  make(map[string]*tokenBucket),
		capacity: float64(capacity),
		perSec:   float64(capacity) / refillPeriod.Seconds(),
		sweepAt:  time.Now().Add(staleBucketAge),
	}
}

// Allow spends one token for the key, reporting whether one was available.
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, lastSeen: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.perSec
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// Reset forgets the key, restoring a full bucket on its next request.
func (l *TokenBucketLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
	return nil
}

// sweep drops buckets idle long enough to be full again. Caller holds mu.
func (l *TokenBucketLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleBucketAge {
			delete(l.buckets, key)
		}
	}
	l.sweepAt = now.Add(staleBucketAge)
}

// IPRateLimiter limits requests per client IP.
type IPRateLimiter struct {
	limiter RateLimiter
}

// NewIPRateLimiter creates an IP limiter allowing requestsPerMinute.
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: NewTokenBucketLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow reports whether a request from the IP may proceed.
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, "ip:"+ip)
}
