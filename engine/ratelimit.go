package engine

import (
	"sync"
	"time"

	"github.com/bsm/ratelimit"
)

// subLimiter rate-limits SubAdd per client ID, adapted from the
// connection-scoped Sign.rateLimit in service/v1/pipiline.go
// (bsm/ratelimit token bucket keyed to a single connection) and
// generalized to one bucket per client ID so an engine embedded in a
// multi-tenant broker gets the same subscribe-storm guard the teacher
// gives an individual connection.
type subLimiter struct {
	mu      sync.Mutex
	perSec  int
	burst   int
	buckets map[string]*ratelimit.RateLimiter
}

func newSubLimiter(perSec, burst int) *subLimiter {
	if perSec <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = perSec
	}
	return &subLimiter{
		perSec:  perSec,
		burst:   burst,
		buckets: make(map[string]*ratelimit.RateLimiter),
	}
}

// allow reports whether clientID may perform one more SubAdd this
// interval. A nil receiver always allows, so callers don't need a
// separate "is rate limiting enabled" check.
func (l *subLimiter) allow(clientID string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rl, ok := l.buckets[clientID]
	if !ok {
		rl = ratelimit.New(l.burst, time.Second)
		l.buckets[clientID] = rl
	}
	return !rl.Limit()
}

// forget drops a client's bucket once it disconnects, mirroring the
// teacher's per-connection Sign being discarded with the connection.
func (l *subLimiter) forget(clientID string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.buckets, clientID)
	l.mu.Unlock()
}
