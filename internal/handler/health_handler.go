package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/ecotoken_store/internal/service"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

var startTime = time.Now()

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	catalog *service.CatalogService
	redis   Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(catalog *service.CatalogService, redis Pinger) *HealthHandler {
	return &HealthHandler{catalog: catalog, redis: redis}
}

// GetHealth responds with service, catalog and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	status := "healthy"
	catalog := h.catalog.Status()
	if catalog.LastError != "" || redisStatus == "disconnected" {
		status = "degraded"
	}

	utils.Success(c, 200, "Service is "+status, gin.H{
		"status":  status,
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"catalog": catalog,
		"redis": gin.H{
			"status": redisStatus,
		},
	})
}
