package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
)

type cachedRouter struct {
	router *gin.Engine
	cache  *ResponseCache
	calls  atomic.Int32
	mr     *miniredis.Miniredis
}

func newCachedRouter(t *testing.T, maxBody int) *cachedRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cr := &cachedRouter{mr: mr}
	cr.cache = NewResponseCache(config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "cache:catalog",
		MaxBodyBytes: maxBody,
	}, rdb, zap.NewNop())

	r := gin.New()
	r.GET("/hotels", cr.cache.Middleware(), func(c *gin.Context) {
		n := cr.calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"call": n, "city": c.Query("city")})
	})
	r.GET("/hotels/missing", cr.cache.Middleware(), func(c *gin.Context) {
		cr.calls.Add(1)
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
	})
	cr.router = r
	return cr
}

func (cr *cachedRouter) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	cr.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestResponseCache_MissThenHit(t *testing.T) {
	cr := newCachedRouter(t, 1<<20)

	first := cr.get("/hotels?city=Paris")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := cr.get("/hotels?city=Paris")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, int32(1), cr.calls.Load())

	other := cr.get("/hotels?city=Rome")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, int32(2), cr.calls.Load())
}

func TestResponseCache_OnlyCachesOK(t *testing.T) {
	cr := newCachedRouter(t, 1<<20)

	cr.get("/hotels/missing")
	w := cr.get("/hotels/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, int32(2), cr.calls.Load())
}

func TestResponseCache_SkipsOversizedBodies(t *testing.T) {
	cr := newCachedRouter(t, 8)

	cr.get("/hotels?city=Paris")
	w := cr.get("/hotels?city=Paris")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Empty(t, cr.mr.Keys())
}

func TestResponseCache_Invalidate(t *testing.T) {
	cr := newCachedRouter(t, 1<<20)
	require.NoError(t, cr.mr.Set("unrelated", "keep"))

	cr.get("/hotels?city=Paris")
	cr.get("/hotels?city=Rome")
	require.Len(t, cr.mr.Keys(), 3)

	cr.cache.Invalidate(context.Background())
	assert.Equal(t, []string{"unrelated"}, cr.mr.Keys())

	w := cr.get("/hotels?city=Paris")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, int32(3), cr.calls.Load())
}

func TestResponseCache_DisabledWithoutRedis(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Prefix: "cache:catalog"}, nil, zap.NewNop())
	rc.Invalidate(context.Background())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/hotels", rc.Middleware(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hotels", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	raw, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(raw)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99, '{'})
	assert.False(t, ok)
}
