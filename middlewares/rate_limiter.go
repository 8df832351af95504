package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/utils"
	"golang.org/x/time/rate"
)

// RateLimiter allows at most rate requests per client IP within interval.
type RateLimiter struct {
	rate     int
	interval time.Duration
	ips      map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

// Prune forgets clients with no request inside the window.
func (rl *RateLimiter) Prune(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	removed := 0
	for ip, hits := range rl.ips {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.ips, ip)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status:  false,
				Message: "Too many requests, please slow down",
			})
			return
		}
		c.Next()
	}
}

// LoginLimiter is a token bucket per client IP for credential checks.
type LoginLimiter struct {
	every    time.Duration
	burst    int
	limiters map[string]*loginEntry
	mu       sync.Mutex
}

type loginEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLoginLimiter(every time.Duration, burst int) *LoginLimiter {
	return &LoginLimiter{
		every:    every,
		burst:    burst,
		limiters: make(map[string]*loginEntry),
	}
}

func (l *LoginLimiter) limiter(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &loginEntry{lim: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.lim
}

// Prune forgets clients idle long enough for their bucket to refill.
func (l *LoginLimiter) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	idle := l.every * time.Duration(l.burst)
	removed := 0
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) >= idle {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

func (l *LoginLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiter(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status:  false,
				Message: "Too many login attempts, please wait a moment",
			})
			return
		}
		c.Next()
	}
}
