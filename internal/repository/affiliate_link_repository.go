package repository

import (
	"errors"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"

	"gorm.io/gorm"
)

// AffiliateLinkRepository manages the affiliate link inventory
type AffiliateLinkRepository struct{}

// NewAffiliateLinkRepository creates an affiliate link repository
func NewAffiliateLinkRepository() *AffiliateLinkRepository {
	return &AffiliateLinkRepository{}
}

// Create stores a new link
func (r *AffiliateLinkRepository) Create(link *model.AffiliateLink) error {
	return database.DB.Create(link).Error
}

// GetByID returns a link by id
func (r *AffiliateLinkRepository) GetByID(id uint) (*model.AffiliateLink, error) {
	var link model.AffiliateLink
	if err := database.DB.First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetByIDs returns the links matching the given ids
func (r *AffiliateLinkRepository) GetByIDs(ids []uint) ([]model.AffiliateLink, error) {
	var links []model.AffiliateLink
	err := database.DB.Where("id IN ?", ids).Find(&links).Error
	return links, err
}

// GetByShortCode returns the link behind a short code
func (r *AffiliateLinkRepository) GetByShortCode(code string) (*model.AffiliateLink, error) {
	var link model.AffiliateLink
	if err := database.DB.Where("short_code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ShortCodeExists reports whether a short code is already taken
func (r *AffiliateLinkRepository) ShortCodeExists(code string) (bool, error) {
	var count int64
	err := database.DB.Model(&model.AffiliateLink{}).
		Where("short_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// ListActive pages active links by id so that deactivations during a health
// sweep cannot shift the page window
func (r *AffiliateLinkRepository) ListActive(afterID uint, limit int) ([]model.AffiliateLink, error) {
	var links []model.AffiliateLink
	err := database.DB.
		Where("is_active = ? AND id > ?", true, afterID).
		Order("id").
		Limit(limit).
		Find(&links).Error
	return links, err
}

// ListActiveByProduct returns the active rotation candidates for a product
func (r *AffiliateLinkRepository) ListActiveByProduct(productID string) ([]model.AffiliateLink, error) {
	var links []model.AffiliateLink
	err := database.DB.
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id").
		Find(&links).Error
	return links, err
}

// List returns a page of links with the total count
func (r *AffiliateLinkRepository) List(page, pageSize int, activeOnly bool) ([]model.AffiliateLink, int64, error) {
	var links []model.AffiliateLink
	var total int64

	query := database.DB.Model(&model.AffiliateLink{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&links).Error
	return links, total, err
}

// Deactivate flips a link inactive if its version still matches. It returns
// false when a concurrent edit bumped the version first.
func (r *AffiliateLinkRepository) Deactivate(id uint, version int64) (bool, error) {
	return r.setActive(id, version, false)
}

// Reactivate flips a link back to active with the same version check
func (r *AffiliateLinkRepository) Reactivate(id uint, version int64) (bool, error) {
	return r.setActive(id, version, true)
}

func (r *AffiliateLinkRepository) setActive(id uint, version int64, active bool) (bool, error) {
	result := database.DB.Model(&model.AffiliateLink{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"is_active": active,
			"version":   version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateCommissionRate changes a link's commission rate with a version check
func (r *AffiliateLinkRepository) UpdateCommissionRate(id uint, version int64, rate float64) (bool, error) {
	result := database.DB.Model(&model.AffiliateLink{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"commission_rate": rate,
			"version":         version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a link
func (r *AffiliateLinkRepository) Delete(id uint) error {
	return database.DB.Delete(&model.AffiliateLink{}, id).Error
}

// ExistsByOriginalURL reports whether a link for this exact URL is stored
func (r *AffiliateLinkRepository) ExistsByOriginalURL(url string) (bool, error) {
	var count int64
	err := database.DB.Model(&model.AffiliateLink{}).
		Where("original_url = ?", url).
		Count(&count).Error
	return count > 0, err
}

// Count returns total and active link counts
func (r *AffiliateLinkRepository) Count() (total int64, active int64, err error) {
	if err = database.DB.Model(&model.AffiliateLink{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = database.DB.Model(&model.AffiliateLink{}).Where("is_active = ?", true).Count(&active).Error
	return total, active, err
}

// IsNotFound reports whether an error is the gorm record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
