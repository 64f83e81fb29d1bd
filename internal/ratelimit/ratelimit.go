// Package ratelimit implements a fixed-window in-memory limiter for
// login attempts. It sits in front of the authenticators so the sixth
// attempt for an email within the window never reaches them.
package ratelimit

import (
	"sync"
	"time"
)

// Limit describes a fixed window: at most MaxAttempts per Window.
type Limit struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginLimit is the policy for guest login endpoints.
var LoginLimit = Limit{MaxAttempts: 5, Window: time.Hour}

// Result reports the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts attempts per key within a fixed window. Keys are
// normalized email addresses, or client IPs when a request carries no
// email. State is process-local; a multi-replica deployment would
// move this to a shared store.
type Limiter struct {
	mu      sync.Mutex
	limit   Limit
	entries map[string]entry
	now     func() time.Time
}

func New(limit Limit) *Limiter {
	return &Limiter{
		limit:   limit,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within
// the limit.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = entry{count: 0, resetAt: now.Add(l.limit.Window)}
	}
	e.count++
	l.entries[key] = e

	if e.count > l.limit.MaxAttempts {
		return Result{Allowed: false, Remaining: 0, RetryAfter: e.resetAt.Sub(now)}
	}
	return Result{Allowed: true, Remaining: l.limit.MaxAttempts - e.count}
}

// Cleanup drops expired windows. Called periodically so the map does
// not grow with every email ever attempted.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

// StartCleanup runs Cleanup on the interval until done is closed.
func (l *Limiter) StartCleanup(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}
