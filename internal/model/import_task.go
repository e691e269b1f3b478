package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ImportTask is a scheduled job that pulls product URLs from a remote feed
// (an operator-configured curl command), transforms the response into a URL
// list with a JavaScript snippet, and runs each URL through the ingestion
// pipeline.
type ImportTask struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Name            string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description     string      `gorm:"type:varchar(500)" json:"description"`
	CronExpression  string      `gorm:"type:varchar(100);not null" json:"cron_expression"`
	CurlCommand     string      `gorm:"type:text;not null" json:"curl_command"`
	TransformScript string      `gorm:"type:text" json:"transform_script"`
	CommissionRate  float64     `gorm:"default:0" json:"commission_rate"` // applied to created links
	Tags            StringArray `gorm:"type:json" json:"tags"`
	Status          string      `gorm:"type:varchar(20);not null;default:'stopped'" json:"status"` // active/stopped/expired
	AutoDestroyAt   *time.Time  `json:"auto_destroy_at"`
	LastRunAt       *time.Time  `json:"last_run_at"`
	NextRunAt       *time.Time  `json:"next_run_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName sets the table name
func (ImportTask) TableName() string {
	return "import_tasks"
}

// TaskExecution records a single run of an import task
type TaskExecution struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	TaskID            uint       `gorm:"not null;index" json:"task_id"`
	Status            string     `gorm:"type:varchar(20);not null" json:"status"` // running/success/failed
	URLsCount         int        `gorm:"default:0" json:"urls_count"`             // URLs produced by the feed
	ProcessedCount    int        `gorm:"default:0" json:"processed_count"`        // URLs run through the pipeline
	CreatedCount      int        `gorm:"default:0" json:"created_count"`          // affiliate links created
	FailedCount       int        `gorm:"default:0" json:"failed_count"`
	ErrorMessage      string     `gorm:"type:text" json:"error_message"`
	ExecutionDuration *int64     `gorm:"type:bigint" json:"execution_duration"` // milliseconds
	StartedAt         time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at"`
}

// TableName sets the table name
func (TaskExecution) TableName() string {
	return "task_executions"
}

// StringArray stores a string slice as a JSON column
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
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

	return json.Unmarshal(bytes, a)
}
