package common

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// GenerationJob records one run of the /api/generate endpoint. Only run
// metadata is stored; uploaded files and the produced archive live in the
// request's work area and are gone once the response is written.
type GenerationJob struct {
	ID           string     `gorm:"primaryKey;type:text" json:"id"`
	Reference    string     `gorm:"index" json:"reference"`
	Status       string     `gorm:"not null" json:"status"` // processing, completed, failed
	TemplateName string     `json:"template_name"`
	CSVName      string     `json:"csv_name"`
	TotalRows    int        `gorm:"default:0" json:"total_rows"`
	SuccessCount int        `gorm:"default:0" json:"success_count"`
	FailCount    int        `gorm:"default:0" json:"fail_count"`
	Errors       string     `gorm:"type:text" json:"errors,omitempty"` // JSON array of RowError
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ApiMetric tracks API performance per request.
type ApiMetric struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Endpoint      string    `gorm:"not null" json:"endpoint"`
	Method        string    `gorm:"not null" json:"method"`
	StatusCode    int       `gorm:"not null" json:"status_code"`
	DurationMs    int       `gorm:"not null" json:"duration_ms"`
	RowsProcessed int       `gorm:"default:0" json:"rows_processed"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}

func (GenerationJob) TableName() string { return "generation_jobs" }
func (ApiMetric) TableName() string     { return "api_metrics" }

// AutoMigrateJobs creates the job tracking tables.
func AutoMigrateJobs(db *gorm.DB) {
	db.AutoMigrate(&GenerationJob{}, &ApiMetric{})
}
