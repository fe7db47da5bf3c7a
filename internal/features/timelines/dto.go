package timelines

import (
	"time"

	"logtrail/internal/reqlog"

	"github.com/google/uuid"
)

type GetTimelinesRequest struct {
	Limit      int        `form:"limit"      json:"limit"`
	Offset     int        `form:"offset"     json:"offset"`
	Method     string     `form:"method"     json:"method"`
	Path       string     `form:"path"       json:"path"`
	BeforeDate *time.Time `form:"beforeDate" json:"beforeDate"`
}

type GetTimelinesResponse struct {
	Timelines []*TimelineDTO `json:"timelines"`
	Total     int64          `json:"total"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

type TimelineDTO struct {
	ID              uuid.UUID              `json:"id"`
	Message         string                 `json:"message"`
	Method          string                 `json:"method"`
	Path            string                 `json:"path"`
	CorrelationID   string                 `json:"correlationId"`
	DurationSeconds float64                `json:"durationSeconds"`
	EventCount      int                    `json:"eventCount"`
	Events          []reqlog.TimelineEvent `json:"events"`
	CreatedAt       time.Time              `json:"createdAt"`
}

type TimelineStatsResponse struct {
	TotalCount                int64   `json:"totalCount"`
	CountLast24h              int64   `json:"countLast24h"`
	AvgDurationSecondsLast24h float64 `json:"avgDurationSecondsLast24h"`

	// Timelines enqueued but not yet persisted. Always read live, never
	// from the stats cache.
	PendingCount int64 `json:"pendingCount"`
}
