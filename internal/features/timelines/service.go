package timelines

import (
	"context"

	"logtrail/internal/reqlog"
	cache_utils "logtrail/internal/util/cache"

	"golang.org/x/sync/singleflight"
)

const statsCacheKey = "current"

type TimelineService struct {
	aggregator   *reqlog.Aggregator
	statsCache   *cache_utils.CacheUtil[TimelineStatsResponse]
	queueService *cache_utils.ValkeyQueueService
	statsGroup   singleflight.Group

	// Repository calls are instrumented at construction so every query
	// shows up in the timeline of the request that triggered it.
	queryPage    func(context.Context, *GetTimelinesRequest) (*GetTimelinesResponse, error)
	computeStats func(context.Context) (*TimelineStatsResponse, error)
}

func NewTimelineService(
	timelineRepository *TimelineRepository,
	aggregator *reqlog.Aggregator,
	wrapper *reqlog.OperationWrapper,
	statsCache *cache_utils.CacheUtil[TimelineStatsResponse],
	queueService *cache_utils.ValkeyQueueService,
) *TimelineService {
	return &TimelineService{
		aggregator:   aggregator,
		statsCache:   statsCache,
		queueService: queueService,
		queryPage: reqlog.Wrap(
			wrapper, reqlog.LayerInfrastructure, "query_timeline_page", timelineRepository.GetPage,
		),
		computeStats: reqlog.WrapFunc(
			wrapper, reqlog.LayerInfrastructure, "compute_timeline_stats", timelineRepository.ComputeStats,
		),
	}
}

func (s *TimelineService) GetTimelines(
	ctx context.Context,
	request *GetTimelinesRequest,
) (*GetTimelinesResponse, error) {
	limit := request.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset := max(request.Offset, 0)

	normalized := *request
	normalized.Limit = limit
	normalized.Offset = offset

	response, err := s.queryPage(ctx, &normalized)
	if err != nil {
		return nil, err
	}

	s.aggregator.Debug(ctx, "timeline page loaded", map[string]any{
		"returned": len(response.Timelines),
		"total":    response.Total,
	})

	return response, nil
}

func (s *TimelineService) GetTimelineStats(ctx context.Context) (*TimelineStatsResponse, error) {
	if cached := s.statsCache.Get(statsCacheKey); cached != nil {
		s.aggregator.Debug(ctx, "timeline stats served from cache", nil)
		return s.withPendingCount(cached), nil
	}

	// Collapse concurrent cache misses into a single database scan
	stats, err, _ := s.statsGroup.Do(statsCacheKey, func() (interface{}, error) {
		computed, err := s.computeStats(ctx)
		if err != nil {
			return nil, err
		}

		s.statsCache.Set(statsCacheKey, computed)

		return computed, nil
	})
	if err != nil {
		return nil, err
	}

	return s.withPendingCount(stats.(*TimelineStatsResponse)), nil
}

// withPendingCount attaches the live queue depth to a possibly cached
// stats snapshot without mutating the cached value.
func (s *TimelineService) withPendingCount(stats *TimelineStatsResponse) *TimelineStatsResponse {
	response := *stats

	pending, err := s.queueService.QueueLength(timelineQueueKey)
	if err == nil {
		response.PendingCount = pending
	}

	return &response
}
