// Package ratelimit provides an ambient per-key token-bucket guard in
// front of the command dispatcher, generalizing the donor pool
// client's single WithinLimit(ip, kind) hook (pool/client.go) to a
// reusable component built on golang.org/x/time/rate.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter grants a per-key token bucket: rate r tokens per second,
// burst b tokens of headroom. Keys are created lazily on first use
// (e.g. one bucket per command name, or per client address) and kept
// for the lifetime of the Limiter.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

// New creates a Limiter granting r events per second with burst b, per
// distinct key.
func New(r float64, b int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		r:       rate.Limit(r),
		b:       b,
	}
}

// Allow reports whether an event for key is within its budget right
// now, consuming one token if so. Mirrors the donor's
// cfg.WithinLimit(ip, kind) boolean contract.
func (l *Limiter) Allow(key string) bool {
	return l.bucketFor(key).Allow()
}

func (l *Limiter) bucketFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.r, l.b)
		l.buckets[key] = b
	}
	return b
}
