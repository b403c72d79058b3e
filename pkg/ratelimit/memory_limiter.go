package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with an in-process store. Semantics
// match the Redis backend exactly; the mutex plays the role of the store's
// operation atomicity. Intended for single-instance deployments and tests.
type MemoryLimiter struct {
	config  *Config
	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

type window struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// NewMemoryLimiter creates an in-memory sliding-window limiter.
func NewMemoryLimiter(config *Config) *MemoryLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &MemoryLimiter{
		config:  config,
		windows: make(map[string]*window),
		now:     time.Now,
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from identity is admitted.
func (l *MemoryLimiter) Allow(_ context.Context, identity string) bool {
	now := l.now()
	windowStart := now.Add(-l.config.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok {
		w = &window{}
		l.windows[identity] = w
	}
	w.lastSeen = now

	// drop entries at or before the window start, same boundary as the
	// Redis ZREMRANGEBYSCORE call
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	if len(w.timestamps) < l.config.MaxRequests {
		w.timestamps = append(w.timestamps, now)
		return true
	}
	return false
}

// cleanupLoop discards idle identities past the retention TTL, mirroring
// the Redis key expiry.
func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.RetentionTTL())
	defer ticker.Stop()

	for range ticker.C {
		cutoff := l.now().Add(-l.config.RetentionTTL())
		l.mu.Lock()
		for identity, w := range l.windows {
			if w.lastSeen.Before(cutoff) {
				delete(l.windows, identity)
			}
		}
		l.mu.Unlock()
	}
}
