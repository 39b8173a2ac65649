package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// DefaultBucketIdle is how long a client's bucket survives without requests.
const DefaultBucketIdle = 10 * time.Minute

// IPRateLimiter stores a token bucket per client IP. Buckets idle for longer
// than the configured period are evicted; a returning client starts with a
// full bucket.
type IPRateLimiter struct {
	buckets *cache.Cache
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewIPRateLimiter creates an IPRateLimiter allowing r requests per second
// with bursts of b, dropping buckets unused for idle.
func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: cache.New(idle, idle),
		r:       r,
		b:       b,
	}
}

// Limiter returns the bucket for ip, creating it on first use. Every call
// pushes the bucket's expiry back.
func (i *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := i.buckets.Get(ip); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(i.r, i.b)
	}
	i.buckets.SetDefault(ip, limiter)
	return limiter
}

// Len returns the number of buckets held, including expired ones not yet
// swept.
func (i *IPRateLimiter) Len() int {
	return i.buckets.ItemCount()
}

// NewRateLimiter returns a middleware that answers 429 once a client IP
// exceeds its bucket. Wire it after chi's RealIP so RemoteAddr is the client.
func NewRateLimiter(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewIPRateLimiter(r, b, DefaultBucketIdle)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Limiter(clientIP(req)).Allow() {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "Muitas requisições. Tente novamente em instantes.")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// clientIP strips the port from RemoteAddr. RealIP may already have
// replaced it with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
