package model

import "time"

// Setting is a key/value admin setting
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(100);uniqueIndex;not null;column:key" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Category    string    `gorm:"type:varchar(50);index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name
func (Setting) TableName() string {
	return "settings"
}
