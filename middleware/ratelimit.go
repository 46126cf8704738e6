package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucket pairs a limiter with when it was last consulted, so cleanup can
// tell active quota state from abandoned identifiers.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks one token bucket per identifier (the requester's
// email for account requests). The bucket holds the full window's quota,
// so the bound approximates a rolling window: a burst of quota requests
// succeeds, the next one is refused until tokens refill.
type RateLimiter struct {
	buckets  map[string]*bucket
	mu       sync.Mutex
	requests int
	window   time.Duration
}

// NewRateLimiter allows requests per window for each identifier.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		requests: requests,
		window:   window,
	}
}

func (rl *RateLimiter) getBucket(key string) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		ratePerSecond := float64(rl.requests) / rl.window.Seconds()
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), rl.requests)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b
}

// Allow reports whether the identifier may proceed. When refused, retryAfter
// is how long until the next request would be admitted.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	b := rl.getBucket(key)
	res := b.limiter.Reserve()
	if !res.OK() {
		return false, rl.window
	}
	delay := res.Delay()
	if delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// cleanup drops buckets untouched for a full window. A bucket that old has
// fully refilled, so dropping it never grants extra quota.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.window {
			delete(rl.buckets, key)
		}
	}
}

// CleanupLoop evicts idle buckets periodically so the map cannot grow
// without bound. Run it once at startup.
func (rl *RateLimiter) CleanupLoop() {
	ticker := time.NewTicker(rl.window)
	go func() {
		for range ticker.C {
			rl.cleanup(time.Now())
		}
	}()
}
