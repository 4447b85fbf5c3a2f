package middleware

import (
	"net/http"
	"sync"
	"time"

	"reservas-api/internal/pkg/clock"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory sliding-window limiter keyed by client IP.
// Counters are process-local: with multiple replicas each replica enforces
// its own window.
type RateLimiter struct {
	limit  int
	window time.Duration
	clock  clock.Clock

	mu        sync.Mutex
	history   map[string][]time.Time
	lastSweep time.Time
}

func NewRateLimiter(limit int, window time.Duration, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clock:   clk,
		history: make(map[string][]time.Time),
	}
}

// Allow records one hit for key and reports whether it fits the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	cutoff := now.Add(-rl.window)
	rl.sweep(now, cutoff)

	recent := rl.history[key][:0]
	for _, t := range rl.history[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.history[key] = recent
		return false
	}

	rl.history[key] = append(recent, now)
	return true
}

// sweep drops keys whose hits all aged out, at most once per window, so idle
// clients do not accumulate in the map. Caller holds the lock.
func (rl *RateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	for key, hits := range rl.history {
		recent := hits[:0]
		for _, t := range hits {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
		if len(recent) == 0 {
			delete(rl.history, key)
			continue
		}
		rl.history[key] = recent
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "Rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
