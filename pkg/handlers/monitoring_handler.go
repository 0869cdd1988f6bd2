package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madisonpark/carzo-sub002/pkg/services"
)

// MonitoringHandler exposes the in-memory request log.
type MonitoringHandler struct {
	monitoring *services.MonitoringService
}

// NewMonitoringHandler creates a new MonitoringHandler.
func NewMonitoringHandler(monitoring *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring}
}

// GetLogs handles GET /api/v1/monitoring/logs
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	logs := h.monitoring.RecentLogs(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"count":   len(logs),
	})
}
