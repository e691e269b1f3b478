package repository

import (
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"
)

// ImportTaskRepository manages scheduled feed import tasks
type ImportTaskRepository struct{}

// NewImportTaskRepository creates an import task repository
func NewImportTaskRepository() *ImportTaskRepository {
	return &ImportTaskRepository{}
}

// Create stores a new task
func (r *ImportTaskRepository) Create(task *model.ImportTask) error {
	return database.DB.Create(task).Error
}

// GetByID returns a task by id
func (r *ImportTaskRepository) GetByID(id uint) (*model.ImportTask, error) {
	var task model.ImportTask
	if err := database.DB.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// GetAllActive returns all active tasks
func (r *ImportTaskRepository) GetAllActive() ([]model.ImportTask, error) {
	var tasks []model.ImportTask
	err := database.DB.Where("status = ?", "active").Find(&tasks).Error
	return tasks, err
}

// GetExpiredTasks returns tasks past their auto-destroy time
func (r *ImportTaskRepository) GetExpiredTasks() ([]model.ImportTask, error) {
	var tasks []model.ImportTask
	err := database.DB.
		Where("auto_destroy_at IS NOT NULL AND auto_destroy_at < ?", time.Now()).
		Find(&tasks).Error
	return tasks, err
}

// Update saves task changes. CreatedAt and ID stay untouched so zero-value
// time fields cannot clobber the originals.
func (r *ImportTaskRepository) Update(task *model.ImportTask) error {
	return database.DB.Model(task).
		Omit("created_at", "id").
		Save(task).Error
}

// Delete removes a task and its execution history
func (r *ImportTaskRepository) Delete(id uint) error {
	if err := database.DB.Where("task_id = ?", id).Delete(&model.TaskExecution{}).Error; err != nil {
		return err
	}
	return database.DB.Delete(&model.ImportTask{}, id).Error
}

// List returns a page of tasks with the total count
func (r *ImportTaskRepository) List(page, pageSize int) ([]model.ImportTask, int64, error) {
	var tasks []model.ImportTask
	var total int64

	if err := database.DB.Model(&model.ImportTask{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := database.DB.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&tasks).Error
	return tasks, total, err
}
