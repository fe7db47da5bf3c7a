package timelines

import (
	"context"
	"encoding/json"
	"time"

	"logtrail/internal/reqlog"
	"logtrail/internal/storage"

	"github.com/google/uuid"
)

type TimelineRepository struct{}

func (r *TimelineRepository) CreateBatch(timelines []*Timeline) error {
	if len(timelines) == 0 {
		return nil
	}

	for _, timeline := range timelines {
		if timeline.ID == uuid.Nil {
			timeline.ID = uuid.New()
		}
	}

	return storage.GetDb().Create(timelines).Error
}

func (r *TimelineRepository) GetPage(
	ctx context.Context,
	request *GetTimelinesRequest,
) (*GetTimelinesResponse, error) {
	var rows = make([]*Timeline, 0)

	sql := `
		SELECT
			t.id,
			t.message,
			t.method,
			t.path,
			t.correlation_id,
			t.duration_seconds,
			t.event_count,
			t.events,
			t.created_at
		FROM timelines t
		WHERE 1=1`

	args := []interface{}{}

	if request.Method != "" {
		sql += " AND t.method = ?"
		args = append(args, request.Method)
	}

	if request.Path != "" {
		sql += " AND t.path = ?"
		args = append(args, request.Path)
	}

	if request.BeforeDate != nil {
		sql += " AND t.created_at < ?"
		args = append(args, *request.BeforeDate)
	}

	sql += " ORDER BY t.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, request.Limit, request.Offset)

	err := storage.GetDb().WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	total, err := r.count(ctx, request)
	if err != nil {
		return nil, err
	}

	timelineDTOs := make([]*TimelineDTO, 0, len(rows))
	for _, row := range rows {
		timelineDTOs = append(timelineDTOs, toTimelineDTO(row))
	}

	return &GetTimelinesResponse{
		Timelines: timelineDTOs,
		Total:     total,
		Limit:     request.Limit,
		Offset:    request.Offset,
	}, nil
}

func (r *TimelineRepository) ComputeStats(ctx context.Context) (*TimelineStatsResponse, error) {
	stats := &TimelineStatsResponse{}

	err := storage.GetDb().WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE created_at > ?) AS count_last24h,
			COALESCE(AVG(duration_seconds) FILTER (WHERE created_at > ?), 0) AS avg_duration_seconds_last24h
		FROM timelines`,
		time.Now().UTC().Add(-24*time.Hour),
		time.Now().UTC().Add(-24*time.Hour),
	).Row().Scan(&stats.TotalCount, &stats.CountLast24h, &stats.AvgDurationSecondsLast24h)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *TimelineRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := storage.GetDb().Where("created_at < ?", cutoff).Delete(&Timeline{})

	return result.RowsAffected, result.Error
}

func (r *TimelineRepository) count(ctx context.Context, request *GetTimelinesRequest) (int64, error) {
	var total int64

	query := storage.GetDb().WithContext(ctx).Model(&Timeline{})

	if request.Method != "" {
		query = query.Where("method = ?", request.Method)
	}
	if request.Path != "" {
		query = query.Where("path = ?", request.Path)
	}
	if request.BeforeDate != nil {
		query = query.Where("created_at < ?", *request.BeforeDate)
	}

	err := query.Count(&total).Error

	return total, err
}

func toTimelineDTO(timeline *Timeline) *TimelineDTO {
	var events []reqlog.TimelineEvent
	if len(timeline.Events) > 0 {
		// Rows written before an event schema change may not parse;
		// expose the timeline anyway, just without events
		_ = json.Unmarshal(timeline.Events, &events)
	}

	return &TimelineDTO{
		ID:              timeline.ID,
		Message:         timeline.Message,
		Method:          timeline.Method,
		Path:            timeline.Path,
		CorrelationID:   timeline.CorrelationID,
		DurationSeconds: timeline.DurationSeconds,
		EventCount:      timeline.EventCount,
		Events:          events,
		CreatedAt:       timeline.CreatedAt,
	}
}
