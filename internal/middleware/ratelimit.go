package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter holds one token bucket per client key. Idle buckets are swept
// from inside allow, at most once per sweepEvery.
type ipLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	every      rate.Limit
	burst      int
	expiry     time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func newIPLimiter(maxRequests int, window time.Duration, now func() time.Time) *ipLimiter {
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	return &ipLimiter{
		visitors:   make(map[string]*visitor),
		every:      rate.Every(window / time.Duration(maxRequests)),
		burst:      maxRequests,
		expiry:     expiry,
		sweepEvery: time.Minute,
		lastSweep:  now(),
		now:        now,
	}
}

func (l *ipLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.sweepEvery {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.expiry {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimiter allows maxRequests per window per client IP. maxRequests <= 0
// disables limiting. The key is gin's ClientIP, so forwarded headers only
// count when the engine trusts the sending proxy.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newIPLimiter(maxRequests, window, time.Now)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
