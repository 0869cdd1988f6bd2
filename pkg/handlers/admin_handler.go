package handlers

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/madisonpark/carzo-sub002/configs"
)

// isMaintenanceMode indicates whether the server is in maintenance mode.
// atomic.Bool keeps reads and writes race-free across handlers.
var isMaintenanceMode atomic.Bool

var startedAt = time.Now()

// AdminHandler serves operational admin endpoints.
type AdminHandler struct {
	environment string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{environment: cfg.Environment}
}

// GetHealthStatus handles GET /api/v1/admin/health-status
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"environment": h.environment,
		"maintenance": isMaintenanceMode.Load(),
		"uptime":      time.Since(startedAt).Round(time.Second).String(),
	})
}

// StartMaintenance handles POST /api/v1/admin/maintenance/start
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	isMaintenanceMode.Store(true)
	c.JSON(http.StatusOK, gin.H{"success": true, "maintenance": true})
}

// StopMaintenance handles POST /api/v1/admin/maintenance/stop
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	isMaintenanceMode.Store(false)
	c.JSON(http.StatusOK, gin.H{"success": true, "maintenance": false})
}

// MaintenanceMiddleware rejects public traffic with 503 while maintenance
// mode is on. Admin routes stay reachable so it can be turned off again.
func MaintenanceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isMaintenanceMode.Load() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "service under maintenance",
			})
			return
		}
		c.Next()
	}
}
