package handler

import (
	"net/http"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/health"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes service liveness and link health checks
type HealthHandler struct {
	monitor *health.Monitor
}

// NewHealthHandler creates a health handler
func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health is the service liveness probe
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

type healthCheckRequest struct {
	LinkIDs []uint `json:"link_ids" binding:"required,min=1,max=100"`
}

// CheckLinks probes the given stored links and deactivates the failures
func (h *HealthHandler) CheckLinks(c *gin.Context) {
	var req healthCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.monitor.CheckLinks(c.Request.Context(), req.LinkIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

// Sweep runs a full inventory health sweep on demand
func (h *HealthHandler) Sweep(c *gin.Context) {
	stats, err := h.monitor.Sweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
