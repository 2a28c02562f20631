package infra

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// --- Rate limiter ---

// idleClientTTL is how long a client's bucket is kept without traffic.
const idleClientTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client key, typically the
// remote IP address.
type ClientRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

// NewClientRateLimiter allows each client rps requests per second with the
// given burst. A non-positive rps disables limiting.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientRateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may make a request now.
func (l *ClientRateLimiter) Allow(key string) bool {
	if l.rps <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// Cleanup forgets clients idle for longer than idleClientTTL.
func (l *ClientRateLimiter) Cleanup() {
	cutoff := l.now().Add(-idleClientTTL)
	l.mu.Lock()
	for k, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
	l.mu.Unlock()
}

// Middleware rejects requests over the limit with 429. onLimit, if non-nil,
// is called for every rejected request.
func (l *ClientRateLimiter) Middleware(onLimit func(r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientKey(r)) {
				if onLimit != nil {
					onLimit(r)
				}
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller by IP. chi's RealIP middleware, when used,
// has already rewritten RemoteAddr from proxy headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
