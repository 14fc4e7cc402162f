package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit // Requests per second
	b   int        // Burst tolerance
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	l := &ipRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
	}
	go l.cleanupVisitors() // Evict idle IPs in the background
	return l
}

// getLimiter returns the limiter for an IP, creating one on first sight
func (l *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, exists := l.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(l.r, l.b)
		l.ips[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors drops IPs idle for more than three minutes
func (l *ipRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(1 * time.Minute)
		l.mu.Lock()
		for ip, v := range l.ips {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.ips, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimitMiddleware limits each client IP to r requests per second with a
// burst of b
func RateLimitMiddleware(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
