// Package cooldown provides keyed rate limiting for commands, channel
// renames and the web API.
package cooldown

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter allows burst events per key, refilled one every interval
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	every    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	lastScan time.Time
}

// New creates a limiter allowing burst events per key and then one every interval
func New(burst int, interval time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return newLimiter(burst, interval, time.Duration(burst)*interval*2)
}

// Window allows at most n events in any span of length window, e.g.
// Window(2, 10*time.Minute) for channel renames. The bucket refills one
// event per window, so no window ever sees more than n.
func Window(n int, window time.Duration) *Limiter {
	if n < 1 {
		n = 1
	}
	return newLimiter(n, window, window*2)
}

func newLimiter(burst int, interval, idleTTL time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(interval),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow consumes one event for key. When it is refused, retryAt is the
// earliest time the next event will be accepted.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, now
	}
	r.CancelAt(now)
	return false, now.Add(delay)
}

// Reset forgets a key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops idle keys; must be called with l.mu held
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastScan) < l.idleTTL {
		return
	}
	l.lastScan = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
}
