package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RotationStrategy names how rotation weights are computed. The selection
// algorithm is identical across strategies; only the weight computation
// differs.
type RotationStrategy string

const (
	StrategyRoundRobin       RotationStrategy = "round_robin"
	StrategyWeighted         RotationStrategy = "weighted"
	StrategyPerformanceBased RotationStrategy = "performance_based"
	StrategyRandom           RotationStrategy = "random"
)

// IsValid reports whether the strategy is one of the known values
func (s RotationStrategy) IsValid() bool {
	switch s {
	case StrategyRoundRobin, StrategyWeighted, StrategyPerformanceBased, StrategyRandom:
		return true
	default:
		return false
	}
}

// RotationConfig controls which of a product's competing affiliate links is
// served to a visitor. Weights sum to 1.0 after normalization; targeting maps
// restrict candidates per link before weighting.
type RotationConfig struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	ProductID        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"product_id"`
	Strategy         RotationStrategy `gorm:"type:varchar(20);not null;default:'round_robin'" json:"strategy"`
	Weights          WeightMap        `gorm:"type:json" json:"weights"`
	TestDurationDays int              `gorm:"default:0" json:"test_duration_days"`
	TrafficSplit     float64          `gorm:"default:1" json:"traffic_split"`
	GeoTargeting     TargetingMap     `gorm:"type:json" json:"geo_targeting"`
	DeviceTargeting  TargetingMap     `gorm:"type:json" json:"device_targeting"`
	Version          int64            `gorm:"default:0" json:"version"` // optimistic concurrency
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName sets the table name
func (RotationConfig) TableName() string {
	return "rotation_configs"
}

// WeightMap stores per-link rotation weights as a JSON column
type WeightMap map[uint]float64

// Value implements driver.Valuer
func (m WeightMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *WeightMap) Scan(value interface{}) error {
	if value == nil {
		*m = WeightMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// TargetingMap stores per-link allow-lists (countries or device types) as a
// JSON column. A link without an entry is always eligible.
type TargetingMap map[uint][]string

// Value implements driver.Valuer
func (m TargetingMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *TargetingMap) Scan(value interface{}) error {
	if value == nil {
		*m = TargetingMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}
