package handler

import (
	"net/http"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/rotation"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/useragent"

	"github.com/gin-gonic/gin"
)

// RotationHandler exposes link rotation and its configuration
type RotationHandler struct {
	rotationService *service.RotationService
}

// NewRotationHandler creates a rotation handler
func NewRotationHandler(rotationService *service.RotationService) *RotationHandler {
	return &RotationHandler{rotationService: rotationService}
}

type selectRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Country   string `json:"country"`
	Device    string `json:"device"`
	Referrer  string `json:"referrer"`
}

// Select picks which of a product's links to serve this visitor. Country
// and device fall back to request headers when the body leaves them empty.
func (h *RotationHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAgent := c.GetHeader("User-Agent")
	visitor := rotation.VisitorContext{
		Country:   req.Country,
		Device:    req.Device,
		UserAgent: userAgent,
		Referrer:  req.Referrer,
	}
	if visitor.Country == "" {
		visitor.Country = c.GetHeader("CF-IPCountry")
	}
	if visitor.Device == "" && userAgent != "" {
		visitor.Device = useragent.ParseDevice(userAgent)
	}

	link, err := h.rotationService.SelectLink(req.ProductID, visitor)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": link})
}

// GetConfig returns a product's rotation config
func (h *RotationHandler) GetConfig(c *gin.Context) {
	config, err := h.rotationService.GetConfig(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rotation config not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": config})
}

// SaveConfig creates or updates a product's rotation config
func (h *RotationHandler) SaveConfig(c *gin.Context) {
	var config model.RotationConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.ProductID = c.Param("productId")

	if err := h.rotationService.SaveConfig(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": config})
}

// DeleteConfig removes a product's rotation config
func (h *RotationHandler) DeleteConfig(c *gin.Context) {
	if err := h.rotationService.DeleteConfig(c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rotation config deleted"})
}

// ListConfigs returns every rotation config
func (h *RotationHandler) ListConfigs(c *gin.Context) {
	configs, err := h.rotationService.ListConfigs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": configs})
}
