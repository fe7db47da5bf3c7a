package timelines

import (
	"encoding/json"
	"testing"
	"time"

	"logtrail/internal/reqlog"
	"logtrail/internal/util/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createTestWorkerService() *TimelineWorkerService {
	return NewTimelineWorkerService(nil, nil, logger.GetLogger())
}

func Test_ParseQueuedTimeline_WithCompletePayload_FillsAllColumns(t *testing.T) {
	workerService := createTestWorkerService()

	payload, err := json.Marshal(&queuedTimeline{
		Message: "GET /api/v1/timelines",
		Timeline: []reqlog.TimelineEvent{
			{Timestamp: time.Now().UTC().Format(time.RFC3339Nano), Level: "INFO", Message: "first"},
			{Timestamp: time.Now().UTC().Format(time.RFC3339Nano), Level: "ERROR", Message: "second"},
		},
		Summary: map[string]any{
			"method":        "GET",
			"path":          "/api/v1/timelines",
			"correlationId": "abc-123",
			"duration":      0.042,
		},
	})
	assert.NoError(t, err)

	timeline, err := workerService.parseQueuedTimeline(payload)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, timeline.ID)
	assert.Equal(t, "GET /api/v1/timelines", timeline.Message)
	assert.Equal(t, "GET", timeline.Method)
	assert.Equal(t, "/api/v1/timelines", timeline.Path)
	assert.Equal(t, "abc-123", timeline.CorrelationID)
	assert.Equal(t, 0.042, timeline.DurationSeconds)
	assert.Equal(t, 2, timeline.EventCount)

	var events []reqlog.TimelineEvent
	assert.NoError(t, json.Unmarshal(timeline.Events, &events))
	assert.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Message)
	assert.Equal(t, "second", events[1].Message)
}

func Test_ParseQueuedTimeline_WithMissingSummaryFields_LeavesColumnsEmpty(t *testing.T) {
	workerService := createTestWorkerService()

	payload, err := json.Marshal(&queuedTimeline{
		Message:  "background job",
		Timeline: []reqlog.TimelineEvent{},
		Summary:  map[string]any{},
	})
	assert.NoError(t, err)

	timeline, err := workerService.parseQueuedTimeline(payload)

	assert.NoError(t, err)
	assert.Equal(t, "background job", timeline.Message)
	assert.Empty(t, timeline.Method)
	assert.Empty(t, timeline.Path)
	assert.Empty(t, timeline.CorrelationID)
	assert.Equal(t, float64(0), timeline.DurationSeconds)
	assert.Equal(t, 0, timeline.EventCount)
}

func Test_ParseQueuedTimeline_WithWrongSummaryTypes_IgnoresBadValues(t *testing.T) {
	workerService := createTestWorkerService()

	payload, err := json.Marshal(&queuedTimeline{
		Message: "typed summary",
		Summary: map[string]any{
			"method":   42,
			"path":     true,
			"duration": "fast",
		},
	})
	assert.NoError(t, err)

	timeline, err := workerService.parseQueuedTimeline(payload)

	assert.NoError(t, err)
	assert.Empty(t, timeline.Method)
	assert.Empty(t, timeline.Path)
	assert.Equal(t, float64(0), timeline.DurationSeconds)
}

func Test_ParseQueuedTimeline_WithMalformedJSON_ReturnsError(t *testing.T) {
	workerService := createTestWorkerService()

	timeline, err := workerService.parseQueuedTimeline([]byte("{not json"))

	assert.Error(t, err)
	assert.Nil(t, timeline)
}
