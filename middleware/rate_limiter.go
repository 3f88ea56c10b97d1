package middleware

import (
	"net/http"
	"sync"
	"time"

	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	visitors map[string]*visitor
	perMin   int
	mu       sync.Mutex
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 100
	}
	return &rateLimiterStore{visitors: make(map[string]*visitor), perMin: perMin}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		// perMin requests per minute, all of which may arrive in a burst.
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// sweep drops visitors idle for longer than idle.
func (s *rateLimiterStore) sweep(idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	for ip, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, ip)
		}
	}
}

// RateLimitMiddleware limits requests per IP address to perMin per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	go func() {
		for range time.Tick(5 * time.Minute) {
			store.sweep(10 * time.Minute)
		}
	}()

	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.Envelope{
				Success: false,
				Message: "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}
