package timelines

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"logtrail/internal/config"
)

const retentionCleanupInterval = 1 * time.Hour

// TimelineCleanupService deletes persisted timelines older than the
// configured retention window.
type TimelineCleanupService struct {
	timelineRepository *TimelineRepository
	logger             *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTimelineCleanupService(
	timelineRepository *TimelineRepository,
	logger *slog.Logger,
) *TimelineCleanupService {
	return &TimelineCleanupService{
		timelineRepository: timelineRepository,
		logger:             logger,
	}
}

func (s *TimelineCleanupService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("Starting timeline retention worker",
		slog.Duration("interval", retentionCleanupInterval),
		slog.Int("retentionDays", config.GetEnv().TimelineRetentionDays))

	s.wg.Add(1)
	go s.retentionWorker()
}

func (s *TimelineCleanupService) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

// ExecuteRetentionForTest runs one retention sweep synchronously.
func (s *TimelineCleanupService) ExecuteRetentionForTest() error {
	return s.removeExpiredTimelines()
}

func (s *TimelineCleanupService) retentionWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(retentionCleanupInterval)
	defer ticker.Stop()

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Retention worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Retention worker shutting down")
			return

		case <-ticker.C:
			if err := s.removeExpiredTimelines(); err != nil {
				s.logger.Error("Error during timeline retention cleanup",
					slog.String("error", err.Error()))
			}
		}
	}
}

func (s *TimelineCleanupService) removeExpiredTimelines() error {
	retentionDays := config.GetEnv().TimelineRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	deleted, err := s.timelineRepository.DeleteOlderThan(cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("Removed expired timelines",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}

	return nil
}
