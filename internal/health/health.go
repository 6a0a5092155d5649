package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handler serves liveness, readiness and metrics endpoints.
type Handler struct {
	db       *gorm.DB
	rdb      *redis.Client
	gatherer prometheus.Gatherer
	service  string
	now      func() time.Time
}

// NewHandler creates a health handler. rdb and gatherer may be nil.
func NewHandler(db *gorm.DB, rdb *redis.Client, gatherer prometheus.Gatherer, service string) *Handler {
	return &Handler{db: db, rdb: rdb, gatherer: gatherer, service: service, now: time.Now}
}

// RegisterRoutes mounts /health, /health/ready and /metrics.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
	if h.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}

// Live reports that the process is up.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   h.service,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Ready checks the database and, when configured, Redis.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true

	if err := h.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   h.service,
		"checks":    checks,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
