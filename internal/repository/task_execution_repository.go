package repository

import (
	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"
)

// TaskExecutionRepository records import task runs
type TaskExecutionRepository struct{}

// NewTaskExecutionRepository creates a task execution repository
func NewTaskExecutionRepository() *TaskExecutionRepository {
	return &TaskExecutionRepository{}
}

// Create stores a new execution record
func (r *TaskExecutionRepository) Create(execution *model.TaskExecution) error {
	return database.DB.Create(execution).Error
}

// Update saves execution changes
func (r *TaskExecutionRepository) Update(execution *model.TaskExecution) error {
	return database.DB.Save(execution).Error
}

// ListByTask returns a page of executions for a task, newest first
func (r *TaskExecutionRepository) ListByTask(taskID uint, page, pageSize int) ([]model.TaskExecution, int64, error) {
	var executions []model.TaskExecution
	var total int64

	query := database.DB.Model(&model.TaskExecution{}).Where("task_id = ?", taskID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("started_at DESC").Offset(offset).Limit(pageSize).Find(&executions).Error
	return executions, total, err
}
