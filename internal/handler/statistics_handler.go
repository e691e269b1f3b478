package handler

import (
	"net/http"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler exposes dashboard counts and performance reports
type StatisticsHandler struct {
	statisticsService *service.StatisticsService
}

// NewStatisticsHandler creates a statistics handler
func NewStatisticsHandler() *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: service.NewStatisticsService(),
	}
}

// GetOverview returns inventory counts
func (h *StatisticsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statisticsService.GetOverview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

type reportRequest struct {
	LinkIDs   []uint `json:"link_ids" binding:"required,min=1"`
	StartDate string `json:"start_date" binding:"required"` // 2006-01-02
	EndDate   string `json:"end_date" binding:"required"`
}

// GenerateReport builds a performance report over a date range
func (h *StatisticsHandler) GenerateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	// make the window inclusive of the end day
	end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	report, err := h.statisticsService.GenerateReport(req.LinkIDs, start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
