package handler

import (
    "context"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/jmoiron/sqlx"

    "github.com/NetraTech/netra_api/internal/cache"
    "github.com/NetraTech/netra_api/internal/utils"
    "github.com/NetraTech/netra_api/pkg/optilab"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
    db      *sqlx.DB
    redis   *cache.RedisClient
    optilab *optilab.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient, optilab *optilab.Client) *HealthHandler {
    return &HealthHandler{db: db, redis: redis, optilab: optilab}
}

// GetHealth responds with service, database, cache and lens lab status.
// A sick dependency reports degraded but still answers 200 so monitors can
// tell a sick instance from a dead one.
func (h *HealthHandler) GetHealth(c *gin.Context) {
    ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
    defer cancel()

    status := "healthy"

    dbStatus := "connected"
    if err := h.db.PingContext(ctx); err != nil {
        dbStatus = "disconnected"
        status = "degraded"
    }

    redisStatus := "connected"
    if err := h.redis.Ping(ctx); err != nil {
        redisStatus = "disconnected"
        status = "degraded"
    }

    labStatus := "connected"
    var queueDepth int
    if ping, err := h.optilab.Ping(ctx); err != nil {
        labStatus = "disconnected"
        status = "degraded"
    } else {
        queueDepth = ping.QueueDepth
    }

    utils.Success(c, 200, "Service is healthy", gin.H{
        "status":   status,
        "version":  "1.0.0",
        "uptime":   int(time.Since(startTime).Seconds()),
        "database": dbStatus,
        "redis":    redisStatus,
        "optilab": gin.H{
            "status":     labStatus,
            "queueDepth": queueDepth,
        },
    })
}
