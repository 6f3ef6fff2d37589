package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/response"
)

// Limiter decides whether one more request from key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration)
}

// RateLimit returns a Gin middleware that limits requests per client IP.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := l.Allow(c.Request.Context(), c.ClientIP())
		if !ok {
			if retry > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
			}
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// TokenBucket is an in-process per-key token bucket.
type TokenBucket struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // Tokens per interval
	interval time.Duration // Refill interval
	now      func() time.Time
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

// NewTokenBucket creates a TokenBucket allowing rate requests per interval.
func NewTokenBucket(rate int, interval time.Duration) *TokenBucket {
	return &TokenBucket{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

func (tb *TokenBucket) Allow(_ context.Context, key string) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	v, exists := tb.visitors[key]
	if !exists {
		v = &visitor{tokens: tb.rate, lastSeen: now}
		tb.visitors[key] = v
	}

	// Refill whole intervals only.
	if refill := int(now.Sub(v.lastSeen)/tb.interval) * tb.rate; refill > 0 {
		v.tokens = min(v.tokens+refill, tb.rate)
		v.lastSeen = now
	}

	if v.tokens <= 0 {
		return false, tb.interval - now.Sub(v.lastSeen)
	}
	v.tokens--
	return true, 0
}

// Cleanup drops visitors idle for longer than maxIdle. Call periodically.
func (tb *TokenBucket) Cleanup(maxIdle time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for key, v := range tb.visitors {
		if tb.now().Sub(v.lastSeen) > maxIdle {
			delete(tb.visitors, key)
		}
	}
}

// RedisWindow is a fixed-window counter shared by every server instance.
type RedisWindow struct {
	rdb    *redis.Client
	rate   int
	window time.Duration
	log    zerolog.Logger
}

// NewRedisWindow creates a RedisWindow allowing rate requests per window.
func NewRedisWindow(rdb *redis.Client, rate int, window time.Duration, log zerolog.Logger) *RedisWindow {
	return &RedisWindow{rdb: rdb, rate: rate, window: window, log: log}
}

// Allow fails open when Redis cannot be reached.
func (rw *RedisWindow) Allow(ctx context.Context, key string) (bool, time.Duration) {
	k := config.Keys.AppendRate(key)

	pipe := rw.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		rw.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
		return true, 0
	}

	// Plain EXPIRE keeps this working on Redis servers older than 7 (no EXPIRE NX).
	retry := ttl.Val()
	if needsExpiry(incr.Val(), retry) {
		if err := rw.rdb.Expire(ctx, k, rw.window).Err(); err != nil {
			rw.log.Warn().Err(err).Msg("Rate limit window not armed")
		}
		retry = rw.window
	}

	if incr.Val() > int64(rw.rate) {
		return false, retry
	}
	return true, 0
}

// needsExpiry reports whether the window key still has to be given its lifetime: on
// the first hit of a window, or when an earlier EXPIRE was lost (TTL -1).
func needsExpiry(count int64, ttl time.Duration) bool {
	return count == 1 || ttl < 0
}
