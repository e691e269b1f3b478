package model

import "time"

// PlatformKey identifies an e-commerce platform
type PlatformKey string

const (
	PlatformUnknown    PlatformKey = "unknown"    // unrecognized platform
	PlatformAmazon     PlatformKey = "amazon"     // Amazon marketplaces
	PlatformShopee     PlatformKey = "shopee"     // Shopee (SEA)
	PlatformLazada     PlatformKey = "lazada"     // Lazada (SEA)
	PlatformAliExpress PlatformKey = "aliexpress" // AliExpress
	PlatformEbay       PlatformKey = "ebay"       // eBay
	PlatformGeneric    PlatformKey = "generic"    // any other shop
)

// String returns the platform key
func (p PlatformKey) String() string {
	return string(p)
}

// IsValid reports whether the key names a supported platform
func (p PlatformKey) IsValid() bool {
	switch p {
	case PlatformAmazon, PlatformShopee, PlatformLazada,
		PlatformAliExpress, PlatformEbay, PlatformGeneric:
		return true
	default:
		return false
	}
}

// AllPlatforms returns every supported platform key
func AllPlatforms() []PlatformKey {
	return []PlatformKey{
		PlatformAmazon,
		PlatformShopee,
		PlatformLazada,
		PlatformAliExpress,
		PlatformEbay,
		PlatformGeneric,
	}
}

// Platform is a registry entry for an e-commerce site. Rows are created
// lazily the first time a new platform key is detected and are read-mostly
// afterwards.
type Platform struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Key       PlatformKey `gorm:"column:platform_key;type:varchar(20);uniqueIndex;not null" json:"key"`
	Name      string      `gorm:"type:varchar(100);not null" json:"name"`
	BaseURL   string      `gorm:"type:varchar(255)" json:"base_url"`
	IsActive  bool        `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName sets the table name
func (Platform) TableName() string {
	return "platforms"
}
