// Package ratelimit keeps one token bucket per key (a remote host, a
// session) and forgets keys that have been idle for a while.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrLimitExceeded is returned by Allow when the key has no tokens left.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Config parameterises a Limiter. A zero PerMinute disables limiting.
type Config struct {
	PerMinute       int
	Burst           int
	Expiry          time.Duration
	CleanupInterval time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a set of keyed token buckets.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*entry
	now     func() time.Time
}

// New returns a Limiter. Call Run to start expiring idle keys.
func New(cfg Config) *Limiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 10 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = cfg.Expiry
	}
	return &Limiter{cfg: cfg, buckets: make(map[string]*entry), now: time.Now}
}

// Allow spends one token for key.
func (l *Limiter) Allow(key string) error {
	if l == nil || l.cfg.PerMinute <= 0 {
		return nil
	}
	l.mu.Lock()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(float64(l.cfg.PerMinute)/60.0), l.cfg.Burst)}
		l.buckets[key] = e
	}
	now := l.now()
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		return ErrLimitExceeded
	}
	return nil
}

// Reset forgets key, restoring its full burst.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Run expires idle keys until ctx is done.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Expire()
		case <-ctx.Done():
			return nil
		}
	}
}

// Expire removes keys not seen within the expiry window.
func (l *Limiter) Expire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > l.cfg.Expiry {
			delete(l.buckets, k)
		}
	}
}
