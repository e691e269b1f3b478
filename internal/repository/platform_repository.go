package repository

import (
	"errors"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"

	"gorm.io/gorm"
)

// PlatformRepository manages the platform registry
type PlatformRepository struct{}

// NewPlatformRepository creates a platform repository
func NewPlatformRepository() *PlatformRepository {
	return &PlatformRepository{}
}

// GetOrCreateByKey returns the registry entry for a platform key, creating
// it lazily on first detection
func (r *PlatformRepository) GetOrCreateByKey(key model.PlatformKey, name, baseURL string) (*model.Platform, error) {
	var platform model.Platform
	err := database.DB.Where("platform_key = ?", string(key)).First(&platform).Error
	if err == nil {
		return &platform, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	platform = model.Platform{
		Key:      key,
		Name:     name,
		BaseURL:  baseURL,
		IsActive: true,
	}
	if err := database.DB.Create(&platform).Error; err != nil {
		// another request may have created it between the lookup and the insert
		var existing model.Platform
		if lookupErr := database.DB.Where("platform_key = ?", string(key)).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &platform, nil
}

// GetByID returns a platform by id
func (r *PlatformRepository) GetByID(id uint) (*model.Platform, error) {
	var platform model.Platform
	if err := database.DB.First(&platform, id).Error; err != nil {
		return nil, err
	}
	return &platform, nil
}

// List returns all registered platforms
func (r *PlatformRepository) List() ([]model.Platform, error) {
	var platforms []model.Platform
	err := database.DB.Order("id").Find(&platforms).Error
	return platforms, err
}
