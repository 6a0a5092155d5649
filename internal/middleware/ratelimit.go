package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/response"
)

const rateLimitMessage = "Too many requests, please try again later"

// tokenBucketScript refills the whole bucket once per interval and takes one
// token. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = capacity
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = interval_ms - (now_ms - last_refill)
		if retry_after_ms < 0 then retry_after_ms = 0 end
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimiter limits requests per client IP. With a Redis client the budget is
// shared across instances; otherwise an in-process limiter is used.
type RateLimiter struct {
	cfg     config.RateLimitConfig
	rdb     *redis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. rdb may be nil.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		rdb:     rdb,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		local:   make(map[string]*localBucket),
	}
}

// Middleware returns the gin handler.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	if !l.cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		allowed, remaining, retryAfter := l.take(c, ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			if l.metrics != nil {
				l.metrics.RateLimited.Inc()
			}
			response.Fail(c, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) take(c *gin.Context, ip string) (bool, int, time.Duration) {
	if l.rdb != nil {
		allowed, remaining, retry, err := l.takeRedis(c, ip)
		if err == nil {
			return allowed, remaining, retry
		}
		l.logger.Warn("rate limiter redis error, using local limiter", zap.Error(err))
	}
	return l.takeLocal(ip)
}

func (l *RateLimiter) takeRedis(c *gin.Context, ip string) (bool, int, time.Duration, error) {
	key := l.cfg.Prefix + ":ip:" + ip
	ttl := int64(l.cfg.Window/time.Second) + 1

	vals, err := tokenBucketScript.Run(c.Request.Context(), l.rdb, []string{key},
		l.now().UnixMilli(),
		l.cfg.Requests,
		l.cfg.Window.Milliseconds(),
		ttl,
	).Int64Slice()
	if err != nil {
		return false, 0, 0, err
	}
	if len(vals) != 3 {
		return true, 0, 0, nil
	}
	return vals[0] == 1, int(vals[1]), time.Duration(vals[2]) * time.Millisecond, nil
}

func (l *RateLimiter) takeLocal(ip string) (bool, int, time.Duration) {
	now := l.now()

	l.mu.Lock()
	l.sweepLocked(now)
	b, ok := l.local[ip]
	if !ok {
		every := l.cfg.Window / time.Duration(l.cfg.Requests)
		b = &localBucket{lim: rate.NewLimiter(rate.Every(every), l.cfg.Requests)}
		l.local[ip] = b
	}
	b.lastSeen = now
	lim := b.lim
	l.mu.Unlock()

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}

// sweepLocked drops buckets idle for a whole window, at most once per window.
// An idle bucket has refilled to its burst, so a fresh one is equivalent.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.Window {
		return
	}
	for ip, b := range l.local {
		if now.Sub(b.lastSeen) >= l.cfg.Window {
			delete(l.local, ip)
		}
	}
	l.lastSweep = now
}

// localSize returns the number of tracked clients.
func (l *RateLimiter) localSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.local)
}
