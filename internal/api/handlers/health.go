package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing service, e.g. the song store connection
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	pingStore Pinger
}

// NewHealthHandler creates the handler; a nil pinger reports the store as disabled
func NewHealthHandler(pingStore Pinger) *HealthHandler {
	return &HealthHandler{pingStore: pingStore}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus := "disabled"
	status := http.StatusOK

	if h.pingStore != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeoutSecs*time.Second)
		defer cancel()

		storeStatus = "connected"
		if err := h.pingStore(ctx); err != nil {
			storeStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	healthStatus := "healthy"
	if status != http.StatusOK {
		healthStatus = "degraded"
	}

	c.JSON(status, gin.H{
		"status": healthStatus,
		"store": gin.H{
			"status": storeStatus,
		},
	})
}
