package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
)

func limiterConfig(requests int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:  true,
		Requests: requests,
		Window:   15 * time.Minute,
		Prefix:   "ratelimit:auth",
	}
}

func limitedRouter(l *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(l.Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	m := metrics.NewNop()
	l := NewRateLimiter(limiterConfig(3), rdb, m, zap.NewNop())
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	r := limitedRouter(l)

	for i := 0; i < 3; i++ {
		w := hit(r, "10.0.0.1")
		require.Equal(t, http.StatusNoContent, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(2-i), w.Header().Get("X-RateLimit-Remaining"))
	}
	// Budgets are per client IP.
	assert.Equal(t, "2", hit(r, "10.0.0.2").Header().Get("X-RateLimit-Remaining"))

	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests, please try again later")
	assert.Equal(t, "900", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))

	clock = clock.Add(5 * time.Minute)
	w = hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "600", w.Header().Get("Retry-After"))

	clock = clock.Add(10 * time.Minute)
	w = hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))

	assert.True(t, mr.Exists("ratelimit:auth:ip:10.0.0.1"))
}

func TestRateLimiter_FallsBackWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	l := NewRateLimiter(limiterConfig(2), rdb, metrics.NewNop(), zap.NewNop())
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	r := limitedRouter(l)

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.9").Code)
}

func TestRateLimiter_Local(t *testing.T) {
	l := NewRateLimiter(limiterConfig(2), nil, nil, zap.NewNop())
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	r := limitedRouter(l)

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
}

func TestRateLimiter_LocalEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(limiterConfig(1), nil, nil, zap.NewNop())
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	r := limitedRouter(l)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.Equal(t, http.StatusNoContent, hit(r, ip).Code)
	}
	assert.Equal(t, 3, l.localSize())

	clock = clock.Add(10 * time.Minute)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.4").Code)
	assert.Equal(t, 4, l.localSize())

	// Past one window: the first three are idle and dropped, 10.0.0.4 keeps its
	// spent budget.
	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.4").Code)
	assert.Equal(t, 1, l.localSize())

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	assert.Equal(t, 2, l.localSize())
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.Enabled = false
	r := limitedRouter(NewRateLimiter(cfg, nil, nil, zap.NewNop()))

	for i := 0; i < 5; i++ {
		w := hit(r, "10.0.0.1")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
