package model

import "time"

// ClickEvent is an append-only record of a visitor following an affiliate
// link. Rows are written once by the redirect handler and consumed read-only
// by the report generator.
type ClickEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LinkID    uint      `gorm:"not null;index" json:"link_id"`
	Device    string    `gorm:"type:varchar(20)" json:"device"`  // desktop/mobile/tablet
	Country   string    `gorm:"type:varchar(10)" json:"country"` // ISO country code
	Referrer  string    `gorm:"type:varchar(500)" json:"referrer"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName sets the table name
func (ClickEvent) TableName() string {
	return "click_events"
}

// ConversionEvent is an append-only record of a purchase attributed to an
// affiliate link.
type ConversionEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LinkID     uint      `gorm:"not null;index" json:"link_id"`
	OrderValue float64   `gorm:"not null" json:"order_value"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName sets the table name
func (ConversionEvent) TableName() string {
	return "conversion_events"
}
