package httputil

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig controls the per-client rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	// ClientTTL bounds how long an idle client entry is kept.
	ClientTTL time.Duration
}

// DefaultRateLimiterConfig returns limits suitable for authentication endpoints.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
		ClientTTL:         3 * time.Minute,
	}
}

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks a token bucket per client address.
type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	clients map[string]*rateLimitClient
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultRateLimiterConfig().RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = DefaultRateLimiterConfig().Burst
	}
	if config.ClientTTL <= 0 {
		config.ClientTTL = DefaultRateLimiterConfig().ClientTTL
	}

	return &RateLimiter{
		config:  config,
		clients: make(map[string]*rateLimitClient),
	}
}

// Middleware rejects clients exceeding their rate with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientAddr(r)) {
			Error(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[addr]
	if !ok {
		// Opportunistic cleanup keeps the map bounded without a background goroutine.
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.config.ClientTTL {
				delete(rl.clients, key)
			}
		}

		client = &rateLimitClient{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[addr] = client
	}
	client.lastSeen = now

	return client.limiter.Allow()
}

// clientAddr returns the request's remote host without the port. RealIP
// middleware runs earlier in the chain, so RemoteAddr already reflects
// X-Forwarded-For when present.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
