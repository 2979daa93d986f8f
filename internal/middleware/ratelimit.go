package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/internal/domain/dto"
	"golang.org/x/time/rate"
)

// visitor is the token bucket of one client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Defaults for the per-IP limiter: 1 request/second sustained, bursts of 60.
var (
	perSecond   = rate.Limit(1)
	burst       = 60
	idleTimeout = 10 * time.Minute
)

// RateLimiter limits requests per client IP with a token bucket.
//
// Behavior:
//   - Each IP gets its own rate.Limiter (perSecond, burst).
//   - Buckets idle for longer than idleTimeout are dropped on the next request.
//   - When the bucket is empty the request is aborted with 429 and a dto.ErrorResponse body.
//
// The store is in memory, so limits apply per process.
func RateLimiter() gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		lastGC   = time.Now()
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastGC) > idleTimeout {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > idleTimeout {
					delete(visitors, k)
				}
			}
			lastGC = now
		}
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(perSecond, burst)}
			visitors[ip] = v
		}
		v.lastSeen = now
		allowed := v.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
