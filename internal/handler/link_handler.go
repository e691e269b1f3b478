package handler

import (
	"net/http"
	"strconv"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// LinkHandler exposes the ingestion pipeline over HTTP
type LinkHandler struct {
	linkService *service.LinkService
}

// NewLinkHandler creates a link handler
func NewLinkHandler(linkService *service.LinkService) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

type urlRequest struct {
	URL string `json:"url" binding:"required"`
}

type processRequest struct {
	URL     string                 `json:"url" binding:"required"`
	Options service.ProcessOptions `json:"options"`
}

type bulkProcessRequest struct {
	URLs    []string               `json:"urls" binding:"required,min=1,max=200"`
	Options service.ProcessOptions `json:"options"`
}

// Platforms lists the supported platform keys
func (h *LinkHandler) Platforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.AllPlatforms()})
}

// Detect classifies a URL's platform
func (h *LinkHandler) Detect(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.linkService.Detect(req.URL)})
}

type extractRequest struct {
	URL      string `json:"url" binding:"required"`
	Platform string `json:"platform"` // optional adapter override
}

// Extract pulls product data from a URL. An explicit platform skips
// detection and forces that adapter.
func (h *LinkHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Platform != "" {
		key := model.PlatformKey(req.Platform)
		if !key.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform: " + req.Platform})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": h.linkService.ExtractAs(c.Request.Context(), req.URL, key)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.linkService.Extract(c.Request.Context(), req.URL)})
}

// Validate probes a URL for reachability
func (h *LinkHandler) Validate(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.linkService.Validate(c.Request.Context(), req.URL)})
}

// Process runs the full pipeline for one URL
func (h *LinkHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.linkService.ProcessURL(c.Request.Context(), req.URL, req.Options)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// BulkProcess runs the pipeline over a URL list
func (h *LinkHandler) BulkProcess(c *gin.Context) {
	var req bulkProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.linkService.BulkProcess(c.Request.Context(), req.URLs, req.Options)
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// List returns a page of stored links
func (h *LinkHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	links, total, err := h.linkService.List(page, pageSize, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  links,
		"total": total,
		"page":  page,
	})
}

// Reactivate flips a deactivated link back on
func (h *LinkHandler) Reactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	if err := h.linkService.Reactivate(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "link reactivated"})
}

type commissionRequest struct {
	CommissionRate float64 `json:"commission_rate"`
}

// UpdateCommissionRate changes a link's commission rate
func (h *LinkHandler) UpdateCommissionRate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	var req commissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.linkService.UpdateCommissionRate(uint(id), req.CommissionRate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "commission rate updated"})
}

// Delete removes a link
func (h *LinkHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	if err := h.linkService.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "link deleted"})
}
