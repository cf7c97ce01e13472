// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorIdleEviction = 3 * time.Minute

// ipLimiter hands out one token bucket per client IP and evicts
// buckets for IPs that have gone quiet.
type ipLimiter struct {
	mtx      sync.Mutex
	visitors map[string]*visitorBucket
	rate     rate.Limit
	burst    int
}

type visitorBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		visitors: make(map[string]*visitorBucket),
		rate:     r,
		burst:    burst,
	}
	go l.evictIdle()
	return l
}

func (l *ipLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)
		l.mtx.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > visitorIdleEviction {
				delete(l.visitors, ip)
			}
		}
		l.mtx.Unlock()
	}
}

func (l *ipLimiter) bucket(ip string) *rate.Limiter {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitorBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.bucket(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

var (
	generalLimiter = newIPLimiter(rate.Every(time.Second), 10) // burst of 10, refill 1/s
	authLimiter    = newIPLimiter(rate.Every(time.Minute), 5)  // login/register brute-force guard
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.middleware()
}
