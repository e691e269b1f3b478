package handler

import (
	"net/http"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// RedirectHandler serves shortened links and records click facts
type RedirectHandler struct {
	redirectService *service.RedirectService
}

// NewRedirectHandler creates a redirect handler
func NewRedirectHandler(redirectService *service.RedirectService) *RedirectHandler {
	return &RedirectHandler{redirectService: redirectService}
}

// Redirect resolves a short code and sends the visitor to the original URL.
// The click is recorded before redirecting; a failed write never blocks the
// redirect.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	code := c.Param("code")
	link, err := h.redirectService.Resolve(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}

	h.redirectService.RecordClick(link,
		c.GetHeader("User-Agent"),
		c.GetHeader("CF-IPCountry"),
		c.GetHeader("Referer"),
	)

	c.Redirect(http.StatusFound, link.OriginalURL)
}

type conversionRequest struct {
	LinkID     uint    `json:"link_id" binding:"required"`
	OrderValue float64 `json:"order_value"`
}

// RecordConversion appends a conversion event for a link
func (h *RedirectHandler) RecordConversion(c *gin.Context) {
	var req conversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.redirectService.RecordConversion(req.LinkID, req.OrderValue); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conversion recorded"})
}
