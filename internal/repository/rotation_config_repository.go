package repository

import (
	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"
)

// RotationConfigRepository manages per-product rotation configuration
type RotationConfigRepository struct{}

// NewRotationConfigRepository creates a rotation config repository
func NewRotationConfigRepository() *RotationConfigRepository {
	return &RotationConfigRepository{}
}

// GetByProduct returns the rotation config for a product
func (r *RotationConfigRepository) GetByProduct(productID string) (*model.RotationConfig, error) {
	var config model.RotationConfig
	if err := database.DB.Where("product_id = ?", productID).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// Create stores a new rotation config
func (r *RotationConfigRepository) Create(config *model.RotationConfig) error {
	return database.DB.Create(config).Error
}

// Update overwrites a config if its version still matches, guarding against
// a concurrent admin edit. It returns false when the version moved.
func (r *RotationConfigRepository) Update(config *model.RotationConfig) (bool, error) {
	result := database.DB.Model(&model.RotationConfig{}).
		Where("id = ? AND version = ?", config.ID, config.Version).
		Updates(map[string]interface{}{
			"strategy":           config.Strategy,
			"weights":            config.Weights,
			"test_duration_days": config.TestDurationDays,
			"traffic_split":      config.TrafficSplit,
			"geo_targeting":      config.GeoTargeting,
			"device_targeting":   config.DeviceTargeting,
			"version":            config.Version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		config.Version++
		return true, nil
	}
	return false, nil
}

// Delete removes a product's rotation config
func (r *RotationConfigRepository) Delete(productID string) error {
	return database.DB.Where("product_id = ?", productID).Delete(&model.RotationConfig{}).Error
}

// List returns all rotation configs
func (r *RotationConfigRepository) List() ([]model.RotationConfig, error) {
	var configs []model.RotationConfig
	err := database.DB.Order("product_id").Find(&configs).Error
	return configs, err
}
