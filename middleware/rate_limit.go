package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/earlybird/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// limiterSet holds one token bucket per key.
type limiterSet struct {
	mu      sync.Mutex
	items   map[string]*rateLimiter
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// RateLimitMiddleware applies a per-IP token bucket allowing perMinute requests.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	return rateLimit(perMinute, func(ctx *gin.Context) string { return ctx.ClientIP() })
}

// UserRateLimitMiddleware keys the bucket by authenticated user, falling back to IP.
func UserRateLimitMiddleware(perMinute int) gin.HandlerFunc {
	return rateLimit(perMinute, func(ctx *gin.Context) string {
		if id, ok := UserID(ctx); ok {
			return "u:" + strconv.FormatUint(uint64(id), 10)
		}
		return ctx.ClientIP()
	})
}

func rateLimit(perMinute int, key func(*gin.Context) string) gin.HandlerFunc {
	perMinute = max(perMinute, 1)
	set := &limiterSet{
		items:   map[string]*rateLimiter{},
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(perMinute/2, 1),
		idleTTL: 5 * time.Minute,
	}

	return func(ctx *gin.Context) {
		if !set.get(key(ctx)).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, l := range s.items {
		if now.After(l.expires) {
			delete(s.items, k)
		}
	}

	if l, ok := s.items[key]; ok {
		l.expires = now.Add(s.idleTTL)
		return l.limiter
	}
	l := &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst), expires: now.Add(s.idleTTL)}
	s.items[key] = l
	return l.limiter
}
