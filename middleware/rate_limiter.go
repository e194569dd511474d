package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"clinicore/config"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterStore struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 100
	}
	store := &rateLimiterStore{
		clients: make(map[string]*limiterEntry),
		rps:     rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
	go store.cleanup()
	return store
}

func (s *rateLimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.clients[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanup drops limiters idle for more than ten minutes so the map does not
// grow with every address ever seen.
func (s *rateLimiterStore) cleanup() {
	for range time.Tick(5 * time.Minute) {
		s.mu.Lock()
		for ip, entry := range s.clients {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(s.clients, ip)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimiter throttles requests per client IP using a token bucket.
func RateLimiter() gin.HandlerFunc {
	store := newRateLimiterStore(config.AppConfig.MaxRequestsPerMin)
	return func(c *gin.Context) {
		if !store.get(GetClientIP(c)).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClientIP returns the originating client address, preferring the
// X-Forwarded-For chain set by the reverse proxy.
func GetClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
