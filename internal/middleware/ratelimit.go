package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hdbaza/helpdesk-api/internal/response"
)

// RateLimiter is a fixed-window token bucket keyed per client. The login
// endpoint uses it to slow down password guessing.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	interval time.Duration
	key      func(c *gin.Context) string
	now      func() time.Time
}

type bucket struct {
	tokens   int
	refilled time.Time
}

// NewRateLimiter allows rate requests per interval for each client IP.
// Stale buckets are swept until ctx is cancelled.
func NewRateLimiter(ctx context.Context, rate int, interval time.Duration) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		key:      func(c *gin.Context) string { return c.ClientIP() },
		now:      time.Now,
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.sweep()
			}
		}
	}()

	return rl
}

// Allow takes a token for key and reports whether one was available, plus
// how long until the bucket refills.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.rate, refilled: now}
		rl.buckets[key] = b
	}

	if elapsed := now.Sub(b.refilled); elapsed >= rl.interval {
		b.tokens = rl.rate
		b.refilled = now
	}

	if b.tokens <= 0 {
		return false, rl.interval - now.Sub(b.refilled)
	}
	b.tokens--
	return true, 0
}

// Middleware returns a Gin middleware answering 429 once a client's bucket
// is empty.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Allow(rl.key(c))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.refilled) > 3*rl.interval {
			delete(rl.buckets, key)
		}
	}
}
