package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/LionartBR/testa-de-ferro/internal/interfaces/http/handlers"
)

// apiKeyHeader is the opaque bypass header. Presence alone is the signal;
// validation against a key list belongs to an outer authorization layer.
const apiKeyHeader = "X-API-Key"

// RateLimiter is an in-memory sliding window per remote IP. The bucket map
// is the only mutable shared state in the process; a single mutex
// serializes it and eviction happens inside the same critical section as
// the count-and-insert.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	cap     int
	buckets map[string][]time.Time
	now     func() time.Time
}

// NewRateLimiter builds a limiter. cap 0 disables it entirely. A nil
// clock defaults to time.Now.
func NewRateLimiter(cap int, window time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		window:  window,
		cap:     cap,
		buckets: make(map[string][]time.Time),
		now:     now,
	}
}

// Allow evicts stale timestamps, then counts and records the request.
func (l *RateLimiter) Allow(client string) bool {
	if l.cap == 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	stamps := l.buckets[client]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.cap {
		l.buckets[client] = kept
		return false
	}
	l.buckets[client] = append(kept, now)
	return true
}

// Middleware rejects over-cap clients with 429. A non-empty bypass header
// skips the limiter.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.cap == 0 || r.Header.Get(apiKeyHeader) != "" {
			next.ServeHTTP(w, r)
			return
		}
		if !l.Allow(clientAddr(r)) {
			handlers.WriteDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
