package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
)

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf   bytes.Buffer
	limit int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	switch {
	case w.limit < 0:
	case w.limit == 0 || w.buf.Len()+len(b) <= w.limit:
		w.buf.Write(b)
	default:
		w.limit = -1
	}
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *captureWriter) truncated() bool { return w.limit < 0 }

// ResponseCache caches successful GET responses of the public catalog in Redis.
type ResponseCache struct {
	cfg    config.CacheConfig
	rdb    *redis.Client
	logger *zap.Logger
}

// NewResponseCache creates a cache. A nil client disables it.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, logger *zap.Logger) *ResponseCache {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &ResponseCache{cfg: cfg, rdb: rdb, logger: logger}
}

func (rc *ResponseCache) enabled() bool {
	return rc != nil && rc.cfg.Enabled && rc.rdb != nil
}

func (rc *ResponseCache) key(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// Middleware serves cached bodies with X-Cache: HIT and stores 200 responses on MISS.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	if !rc.enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := rc.key(c.Request)
		if bs, err := rc.rdb.Get(c.Request.Context(), key).Bytes(); err == nil {
			if status, hdr, body, ok := decodePayload(bs); ok {
				for k, vals := range hdr {
					if strings.EqualFold(k, "Content-Length") {
						continue
					}
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Header("X-Cache", "HIT")
				c.Data(status, hdr.Get("Content-Type"), body)
				c.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: c.Writer, limit: rc.cfg.MaxBodyBytes}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK || cw.truncated() {
			return
		}
		hdr := make(http.Header)
		if ct := cw.Header().Get("Content-Type"); ct != "" {
			hdr.Set("Content-Type", ct)
		}
		payload, err := encodePayload(cw.Status(), hdr, cw.buf.Bytes())
		if err != nil {
			return
		}
		if err := rc.rdb.SetEx(context.Background(), key, payload, rc.cfg.TTL).Err(); err != nil {
			rc.logger.Warn("failed to store cached response", zap.Error(err))
		}
	}
}

// Invalidate drops every cached catalog response. Called after catalog writes
// and new reviews.
func (rc *ResponseCache) Invalidate(ctx context.Context) {
	if !rc.enabled() {
		return
	}
	iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		rc.logger.Warn("failed to scan cached responses", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		rc.logger.Warn("failed to invalidate cached responses", zap.Error(err))
	}
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}
