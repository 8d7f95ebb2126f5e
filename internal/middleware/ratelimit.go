package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentic-insurtech/insurtech/internal/models"
)

const idleLimiterTTL = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client. Each bucket holds a
// minute's worth of requests and refills continuously.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     int
	every     rate.Limit
	lastSweep time.Time
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	if limitPerMinute <= 0 {
		limitPerMinute = 1
	}
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		limit:     limitPerMinute,
		every:     rate.Every(time.Minute / time.Duration(limitPerMinute)),
		lastSweep: time.Now(),
	}
}

// Allow reports whether key may make a request now and how many requests it
// has left.
func (rl *RateLimiter) Allow(key string) (remaining int, ok bool) {
	now := time.Now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) > idleLimiterTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > idleLimiterTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}
	c, found := rl.clients[key]
	if !found {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()

	ok = c.limiter.AllowN(now, 1)
	remaining = int(math.Max(0, math.Floor(c.limiter.TokensAt(now))))
	return remaining, ok
}

// retryAfter is the time until one token is back, in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	return int(math.Ceil(60 / float64(rl.limit)))
}

// RateLimit limits each client, keyed by API key or else remote address.
func RateLimit(limitPerMinute int, apiKeyHeader string) func(http.Handler) http.Handler {
	rl := NewRateLimiter(limitPerMinute)
	limit := strconv.Itoa(rl.limit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				key = r.RemoteAddr
			}

			remaining, ok := rl.Allow(key)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
