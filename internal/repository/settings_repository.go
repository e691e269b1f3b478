package repository

import (
	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"
)

// SettingsRepository manages admin settings
type SettingsRepository struct{}

// NewSettingsRepository creates a settings repository
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// GetByKey returns a setting by key
func (r *SettingsRepository) GetByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	err := database.DB.Where("`key` = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetOrCreate returns a setting, creating it with the given value when absent
func (r *SettingsRepository) GetOrCreate(key, value, description, category string) (*model.Setting, error) {
	var setting model.Setting
	err := database.DB.Where("`key` = ?", key).First(&setting).Error

	if err != nil {
		setting = model.Setting{
			Key:         key,
			Value:       value,
			Description: description,
			Category:    category,
		}
		if err := database.DB.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}

	return &setting, nil
}

// Update saves a setting, creating it when absent
func (r *SettingsRepository) Update(setting *model.Setting) error {
	var existing model.Setting
	err := database.DB.Where("`key` = ?", setting.Key).First(&existing).Error

	if err != nil {
		return database.DB.Create(setting).Error
	}

	existing.Value = setting.Value
	if setting.Description != "" {
		existing.Description = setting.Description
	}
	if setting.Category != "" {
		existing.Category = setting.Category
	}
	return database.DB.Save(&existing).Error
}

// GetByCategory returns all settings in a category
func (r *SettingsRepository) GetByCategory(category string) ([]model.Setting, error) {
	var settings []model.Setting
	err := database.DB.Where("category = ?", category).Find(&settings).Error
	return settings, err
}
