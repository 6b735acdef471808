package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
)

// RateLimitRule is a token bucket refilled at PerMinute tokens per minute
// holding at most Burst tokens. A zero field disables limiting.
type RateLimitRule struct {
	PerMinute int
	Burst     int
}

func (r RateLimitRule) enabled() bool {
	return r.PerMinute > 0 && r.Burst > 0
}

// RateLimiter tracks one bucket per client key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles each client IP. Generation requests occupy the model
// for seconds at a time, so the router mounts this on POST /generate only.
func RateLimit(rule RateLimitRule, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		if !rule.enabled() {
			c.Next()
			return
		}
		allowed, retryAfter := limiter.Allow(c.ClientIP(), rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := retryAfter.Milliseconds()
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(float64(retryAfterMs)/1000.0)), 10))
		c.Set("outcome", "rate_limited")
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many generation requests", gin.H{"retryAfterMs": retryAfterMs})
		c.Abort()
	}
}

// Allow takes one token for key, or reports how long until one is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || !rule.enabled() {
		return true, 0
	}
	rate := float64(rule.PerMinute) / 60.0
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	wait := (1 - bucket.tokens) / rate
	return false, time.Duration(math.Ceil(wait*1000.0)) * time.Millisecond
}
