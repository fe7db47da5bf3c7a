package timelines

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	cache_utils "logtrail/internal/util/cache"

	"github.com/google/uuid"
)

const (
	batchProcessingInterval = 1 * time.Second
	persistenceBatchSize    = 500
)

// TimelineWorkerService drains the valkey timeline queue and persists
// batches to postgres. All application instances may enqueue via the
// QueueSink, but StartWorkers should run on ONE instance only to avoid
// duplicate persistence.
type TimelineWorkerService struct {
	timelineRepository *TimelineRepository
	queueService       *cache_utils.ValkeyQueueService
	logger             *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTimelineWorkerService(
	timelineRepository *TimelineRepository,
	queueService *cache_utils.ValkeyQueueService,
	logger *slog.Logger,
) *TimelineWorkerService {
	return &TimelineWorkerService{
		timelineRepository: timelineRepository,
		queueService:       queueService,
		logger:             logger,
	}
}

func (s *TimelineWorkerService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting timeline persistence worker",
		slog.Duration("batchInterval", batchProcessingInterval),
		slog.Int("batchSize", persistenceBatchSize),
	)

	s.wg.Add(1)
	go s.runPersistenceLoop()
}

func (s *TimelineWorkerService) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

func (s *TimelineWorkerService) runPersistenceLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(batchProcessingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			// Final drain so a graceful shutdown does not strand queued timelines
			s.persistPendingBatch()
			return
		case <-ticker.C:
			s.persistPendingBatch()
		}
	}
}

func (s *TimelineWorkerService) persistPendingBatch() {
	items, err := s.queueService.DequeueBatch(timelineQueueKey, persistenceBatchSize)
	if err != nil {
		s.logger.Error("failed to dequeue timelines", "error", err)
		return
	}

	if len(items) == 0 {
		return
	}

	timelines := make([]*Timeline, 0, len(items))
	for _, item := range items {
		timeline, err := s.parseQueuedTimeline(item)
		if err != nil {
			s.logger.Error("dropping malformed queued timeline", "error", err)
			continue
		}

		timelines = append(timelines, timeline)
	}

	if err := s.timelineRepository.CreateBatch(timelines); err != nil {
		s.logger.Error("failed to persist timeline batch",
			"error", err,
			slog.Int("count", len(timelines)),
		)
		return
	}
}

func (s *TimelineWorkerService) parseQueuedTimeline(item []byte) (*Timeline, error) {
	var queued queuedTimeline
	if err := json.Unmarshal(item, &queued); err != nil {
		return nil, err
	}

	events, err := json.Marshal(queued.Timeline)
	if err != nil {
		return nil, err
	}

	timeline := &Timeline{
		ID:         uuid.New(),
		Message:    queued.Message,
		EventCount: len(queued.Timeline),
		Events:     events,
		CreatedAt:  time.Now().UTC(),
	}

	if method, isString := queued.Summary["method"].(string); isString {
		timeline.Method = method
	}
	if path, isString := queued.Summary["path"].(string); isString {
		timeline.Path = path
	}
	if correlationID, isString := queued.Summary["correlationId"].(string); isString {
		timeline.CorrelationID = correlationID
	}
	if duration, isFloat := queued.Summary["duration"].(float64); isFloat {
		timeline.DurationSeconds = duration
	}

	return timeline, nil
}
