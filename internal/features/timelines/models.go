package timelines

import (
	"time"

	"github.com/google/uuid"
)

type Timeline struct {
	ID              uuid.UUID `json:"id"              gorm:"column:id"`
	Message         string    `json:"message"         gorm:"column:message"`
	Method          string    `json:"method"          gorm:"column:method"`
	Path            string    `json:"path"            gorm:"column:path"`
	CorrelationID   string    `json:"correlationId"   gorm:"column:correlation_id"`
	DurationSeconds float64   `json:"durationSeconds" gorm:"column:duration_seconds"`
	EventCount      int       `json:"eventCount"      gorm:"column:event_count"`
	Events          []byte    `json:"-"               gorm:"column:events;type:jsonb"`
	CreatedAt       time.Time `json:"createdAt"       gorm:"column:created_at"`
}

func (Timeline) TableName() string {
	return "timelines"
}
