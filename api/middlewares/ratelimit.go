package middlewares

import (
	"net/http"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/moyoez/qrdrop/tool"
)

// limiterTTL drops idle per-client limiters so a long-running session does
// not accumulate an entry per address that ever probed it.
const limiterTTL = 5 * time.Minute

// RateLimit returns a middleware capping requests per second per client IP.
// rps <= 0 disables the limit entirely.
func RateLimit(rps int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	burst := rps * 2
	if burst < 5 {
		burst = 5
	}

	var mu sync.Mutex
	limiters := ttlworker.NewCache[string, *rate.Limiter](limiterTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		limiter := limiters.Get(ip)
		if limiter == nil {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters.Set(ip, limiter)
		}
		mu.Unlock()

		if !limiter.Allow() {
			tool.DefaultLogger.Debugf("Rate limited %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, tool.FastReturnError("Too many requests"))
			return
		}
		c.Next()
	}
}
