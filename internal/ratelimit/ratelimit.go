// Package ratelimit implements a process-local sliding-window log limiter.
//
// State lives in memory only. Multiple replicas each enforce their own limit.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most limit requests per identifier within any window.
type Limiter struct {
	mu        sync.Mutex
	now       func() time.Time
	requests  map[string][]time.Time
	maxWindow time.Duration
}

// New returns an empty Limiter using the wall clock.
func New() *Limiter {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		now:      now,
		requests: make(map[string][]time.Time),
	}
}

// Allow records a request for identifier and reports whether it is admitted.
// Rejected requests are not recorded.
func (l *Limiter) Allow(identifier string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if window > l.maxWindow {
		l.maxWindow = window
	}

	now := l.now()
	kept := prune(l.requests[identifier], now.Add(-window))
	if len(kept) >= limit {
		l.requests[identifier] = kept
		return false
	}
	l.requests[identifier] = append(kept, now)
	return true
}

// Sweep drops identifiers whose timestamps have all aged out.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.maxWindow)
	for id, ts := range l.requests {
		kept := prune(ts, cutoff)
		if len(kept) == 0 {
			delete(l.requests, id)
			continue
		}
		l.requests[id] = kept
	}
}

// Run sweeps every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len returns the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

// prune keeps timestamps strictly after cutoff. Input is in insertion order.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}
