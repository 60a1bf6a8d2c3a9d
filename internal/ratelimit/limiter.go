// Package ratelimit implements per-caller sliding-window admission control.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most `limit` requests per caller within a trailing
// window. State is process-local and lost on restart.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	hits   map[string][]time.Time
}

func New(window time.Duration, limit int) *Limiter {
	l := &Limiter{
		window: window,
		limit:  limit,
		hits:   make(map[string][]time.Time),
	}

	go l.sweep()
	return l
}

// Admit reports whether the caller identified by key may proceed at `now`.
// Denied requests are not recorded, so a throttled caller does not extend
// its own window.
func (l *Limiter) Admit(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.prune(key, now)
	if len(kept) >= l.limit {
		return false
	}

	l.hits[key] = append(kept, now)
	return true
}

// prune drops timestamps older than the trailing window for key and returns
// what remains. Caller must hold the mutex.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	recorded := l.hits[key]

	kept := recorded[:0]
	for _, t := range recorded {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}

// sweep periodically evicts callers whose whole window has elapsed.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key := range l.hits {
			l.prune(key, now)
		}
		l.mu.Unlock()
	}
}
