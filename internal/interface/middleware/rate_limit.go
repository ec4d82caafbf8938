package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/invest-marketplace/pkg/response"
)

// Quota is the state of a rate-limit key right after a hit.
type Quota struct {
	Hits  int
	Reset time.Duration
}

// Limiter counts hits per key within its window.
type Limiter interface {
	Hit(ctx context.Context, key string) (Quota, error)
}

// fixedWindowScript increments the key, starts the window on the first hit
// and returns {hits, remaining ttl in ms} in a single round trip.
var fixedWindowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// RedisWindow is a fixed-window Limiter shared by every API replica.
type RedisWindow struct {
	rdb    redis.Scripter
	window time.Duration
}

func NewRedisWindow(rdb redis.Scripter, window time.Duration) *RedisWindow {
	return &RedisWindow{rdb: rdb, window: window}
}

func (w *RedisWindow) Hit(ctx context.Context, key string) (Quota, error) {
	res, err := fixedWindowScript.Run(ctx, w.rdb, []string{key}, w.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Quota{}, err
	}
	if len(res) != 2 {
		return Quota{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	q := Quota{Hits: int(res[0])}
	if res[1] > 0 {
		q.Reset = time.Duration(res[1]) * time.Millisecond
	}
	return q, nil
}

// KeyFunc picks the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc exempts a request from limiting when it returns true.
type AllowFunc func(*gin.Context) bool

func clientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + clientIP(c) }
}

// KeyByIPAndPath buckets per route template, so /company/1 and /company/2 share a bucket.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return "rl:path:" + route + ":ip:" + clientIP(c)
	}
}

// KeyByUserID falls back to the client IP for requests without a user.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + clientIP(c)
	}
}

// RateLimit allows limit requests per window and key, counted in Redis.
// Without Redis the limiter is disabled.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || window <= 0 {
		return passThrough
	}
	return Throttle(NewRedisWindow(rdb, window), limit, keyFn, allow)
}

// Throttle rejects requests beyond limit hits with 429 and reports the
// quota in X-RateLimit-* headers. Limiter errors let the request through.
func Throttle(l Limiter, limit int, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if l == nil || limit <= 0 || keyFn == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		q, err := l.Hit(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		reset := strconv.Itoa(int(math.Ceil(q.Reset.Seconds())))
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-q.Hits, 0)))
		c.Header("X-RateLimit-Reset", reset)
		if q.Hits > limit {
			c.Header("Retry-After", reset)
			response.Fail(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func passThrough(c *gin.Context) { c.Next() }
