package handler

import (
	"net/http"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// SettingsHandler manages admin settings
type SettingsHandler struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{
		settingsRepo: repository.NewSettingsRepository(),
	}
}

// GetSetting returns a setting by key
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingsRepo.GetByKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": setting})
}

type settingRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateSetting saves a setting, creating it when absent
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting := &model.Setting{
		Key:         c.Param("key"),
		Value:       req.Value,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := h.settingsRepo.Update(setting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": setting})
}

// GetByCategory returns every setting in a category
func (h *SettingsHandler) GetByCategory(c *gin.Context) {
	settings, err := h.settingsRepo.GetByCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}
