package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budbeer/budbeer_api/internal/utils"
)

var startTime = time.Now()

// Pinger is any dependency that can report reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil.
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, database and redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "disconnected"
		healthy = false
	}

	data := gin.H{
		"status":   "healthy",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": gin.H{"status": dbStatus},
	}

	if h.redis != nil {
		redisStatus := "connected"
		if err := h.redis.PingContext(ctx); err != nil {
			// Redis only backs caches and an optional limiter.
			redisStatus = "disconnected"
		}
		data["redis"] = gin.H{"status": redisStatus}
	}

	if !healthy {
		data["status"] = "unhealthy"
		utils.Success(c, 503, "Service is unhealthy", data)
		return
	}
	utils.Success(c, 200, "Service is healthy", data)
}
