package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for one identity
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// UserRateLimiter keeps one token bucket per identity (an IP, a user id).
// Buckets idle for longer than expiration are dropped on the next sweep.
type UserRateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rate       float64 // tokens per second
	capacity   float64
	expiration time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func New(rate, capacity float64, expiration time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		capacity:   capacity,
		expiration: expiration,
		lastSweep:  time.Now(),
		now:        time.Now,
	}
}

// Allow takes a token from identity's bucket if one is available.
func (l *UserRateLimiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[identity] = b
	}

	b.tokens = min(l.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep must be called with mu held
func (l *UserRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.expiration {
		return
	}
	for id, b := range l.buckets {
		if now.Sub(b.lastRefill) >= l.expiration {
			delete(l.buckets, id)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked identities.
func (l *UserRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
