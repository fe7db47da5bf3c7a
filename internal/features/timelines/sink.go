package timelines

import (
	"encoding/json"
	"log/slog"

	"logtrail/internal/reqlog"
	cache_utils "logtrail/internal/util/cache"
)

const timelineQueueKey = "logtrail:timelines:queue"

// queuedTimeline is the wire form an emission takes between the sink and
// the persistence workers.
type queuedTimeline struct {
	Message  string                 `json:"message"`
	Timeline []reqlog.TimelineEvent `json:"timeline"`
	Summary  map[string]any         `json:"summary"`
}

// QueueSink ships finalized timelines to the valkey queue for asynchronous
// persistence. Emission failures are logged and swallowed: the sink runs
// inside request exit paths and must never fail them.
type QueueSink struct {
	queueService *cache_utils.ValkeyQueueService
	logger       *slog.Logger
}

func NewQueueSink(queueService *cache_utils.ValkeyQueueService, logger *slog.Logger) *QueueSink {
	return &QueueSink{
		queueService: queueService,
		logger:       logger,
	}
}

func (s *QueueSink) Emit(message string, timeline []reqlog.TimelineEvent, summary map[string]any) {
	payload, err := json.Marshal(&queuedTimeline{
		Message:  message,
		Timeline: timeline,
		Summary:  summary,
	})
	if err != nil {
		s.logger.Error("failed to serialize timeline for queueing", "error", err)
		return
	}

	if err := s.queueService.Enqueue(timelineQueueKey, payload); err != nil {
		s.logger.Error("failed to enqueue timeline", "error", err)
	}
}
