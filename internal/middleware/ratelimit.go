// Package middleware provides HTTP middleware for the auction engine.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dealdeskai/dealdesk/internal/httputil"
)

// Eviction and sizing for the per-IP bucket table. The cap bounds memory
// under address-spoofing floods; idle buckets age out in the background.
const (
	maxTrackedIPs   = 100_000
	bucketMaxAge    = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// tokenBucket tracks remaining request tokens for one client IP.
type tokenBucket struct {
	tokens   int
	lastFill time.Time
}

// RateLimiter applies a per-IP token bucket. Bid traffic is bursty, so
// the burst size should sit well above the steady rate.
type RateLimiter struct {
	mu    sync.Mutex
	byIP  map[string]*tokenBucket
	rate  int
	burst int
}

// NewRateLimiter creates a limiter allowing ratePerSec sustained requests
// with the given burst per IP. A background goroutine evicts idle buckets
// until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		byIP:  make(map[string]*tokenBucket),
		rate:  ratePerSec,
		burst: burst,
	}
	go rl.evictLoop(ctx)

	return rl
}

func (rl *RateLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.byIP {
				if now.Sub(b.lastFill) > bucketMaxAge {
					delete(rl.byIP, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// take refills the bucket for elapsed time and consumes one token,
// reporting whether the request is allowed. Caller holds rl.mu.
func (rl *RateLimiter) take(b *tokenBucket) bool {
	now := time.Now()
	if refill := int(now.Sub(b.lastFill).Seconds() * float64(rl.rate)); refill > 0 {
		b.tokens = min(b.tokens+refill, rl.burst)
		b.lastFill = now
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--

	return true
}

// Handler returns gin middleware enforcing the limit per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// ClientIP is spoof-safe here: the router disables trusted
		// proxy headers with SetTrustedProxies(nil).
		ip := c.ClientIP()

		rl.mu.Lock()
		b, ok := rl.byIP[ip]
		if !ok {
			if len(rl.byIP) >= maxTrackedIPs {
				rl.mu.Unlock()
				httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

				return
			}
			b = &tokenBucket{tokens: rl.burst, lastFill: time.Now()}
			rl.byIP[ip] = b
		}
		allowed := rl.take(b)
		rl.mu.Unlock()

		if !allowed {
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}
