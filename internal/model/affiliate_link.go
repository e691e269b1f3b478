package model

import "time"

// AffiliateLink is a stored, monetizable product URL. It is created by the
// ingestion pipeline; after creation only IsActive changes, flipped to false
// by the health monitor or back to true by an admin reactivation.
type AffiliateLink struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      string    `gorm:"type:varchar(100);index" json:"product_id"`
	PlatformID     uint      `gorm:"not null;index" json:"platform_id"`
	OriginalURL    string    `gorm:"type:varchar(2000);not null" json:"original_url"`
	ShortCode      string    `gorm:"type:varchar(20);uniqueIndex" json:"short_code"`
	ShortenedURL   string    `gorm:"type:varchar(255)" json:"shortened_url"`
	CommissionRate float64   `gorm:"default:0" json:"commission_rate"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	Version        int64     `gorm:"default:0" json:"version"` // optimistic concurrency
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the table name
func (AffiliateLink) TableName() string {
	return "affiliate_links"
}

// LinkHealthCheck is the outcome of a single health probe against a stored
// link, returned by batch health checks.
type LinkHealthCheck struct {
	LinkID       uint   `json:"link_id"`
	URL          string `json:"url"`
	IsValid      bool   `json:"is_valid"`
	Status       int    `json:"status"`
	Error        string `json:"error,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
	Deactivated  bool   `json:"deactivated"`
}
