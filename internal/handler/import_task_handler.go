package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskReloader lets the handler tell the scheduler a task changed
type TaskReloader interface {
	ReloadTask(taskID uint) error
}

// ImportTaskHandler manages scheduled feed import tasks
type ImportTaskHandler struct {
	importService *service.ImportService
	reloader      TaskReloader
}

// NewImportTaskHandler creates an import task handler
func NewImportTaskHandler(importService *service.ImportService, reloader TaskReloader) *ImportTaskHandler {
	return &ImportTaskHandler{
		importService: importService,
		reloader:      reloader,
	}
}

// CreateTask stores a new import task
func (h *ImportTaskHandler) CreateTask(c *gin.Context) {
	var task model.ImportTask
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.importService.CreateTask(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if task.Status == "active" {
		h.reloadTask(task.ID)
	}
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// GetTask returns a task by id
func (h *ImportTaskHandler) GetTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.importService.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// ListTasks returns a page of tasks
func (h *ImportTaskHandler) ListTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	tasks, total, err := h.importService.ListTasks(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  tasks,
		"total": total,
		"page":  page,
	})
}

// UpdateTask saves task changes and reloads its schedule
func (h *ImportTaskHandler) UpdateTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var task model.ImportTask
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task.ID = id

	if err := h.importService.UpdateTask(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.reloadTask(id)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

// DeleteTask removes a task and unschedules it
func (h *ImportTaskHandler) DeleteTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.importService.DeleteTask(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.reloadTask(id)
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// RunTask executes a task immediately, outside its schedule
func (h *ImportTaskHandler) RunTask(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.importService.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	go func() {
		if err := h.importService.ExecuteTask(context.Background(), task); err != nil {
			// the execution record already captured the failure
			return
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "task started"})
}

// TestTask runs a task's fetch and transform once without persisting
// anything. The id path segment "config" tests an inline configuration from
// the request body instead of a stored task.
func (h *ImportTaskHandler) TestTask(c *gin.Context) {
	var curlCommand, transformScript string

	if idParam := c.Param("id"); idParam != "config" {
		id, ok := h.taskID(c)
		if !ok {
			return
		}
		task, err := h.importService.GetTask(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		curlCommand = task.CurlCommand
		transformScript = task.TransformScript
	} else {
		var req struct {
			CurlCommand     string `json:"curl_command" binding:"required"`
			TransformScript string `json:"transform_script"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		curlCommand = req.CurlCommand
		transformScript = req.TransformScript
	}

	urls, err := h.importService.TestTask(curlCommand, transformScript)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"urls":  urls,
		"count": len(urls),
	}})
}

// EnableTask activates a task
func (h *ImportTaskHandler) EnableTask(c *gin.Context) {
	h.setStatus(c, "active")
}

// DisableTask stops a task
func (h *ImportTaskHandler) DisableTask(c *gin.Context) {
	h.setStatus(c, "stopped")
}

// ListExecutions returns a task's run history
func (h *ImportTaskHandler) ListExecutions(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	executions, total, err := h.importService.ListExecutions(id, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  executions,
		"total": total,
		"page":  page,
	})
}

func (h *ImportTaskHandler) setStatus(c *gin.Context, status string) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	task, err := h.importService.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	task.Status = status
	if err := h.importService.UpdateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.reloadTask(id)
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *ImportTaskHandler) taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return uint(id), true
}

func (h *ImportTaskHandler) reloadTask(id uint) {
	if h.reloader == nil {
		return
	}
	if err := h.reloader.ReloadTask(id); err != nil {
		log.Printf("Failed to reload task %d in scheduler: %v", id, err)
	}
}
