package timelines

import (
	"logtrail/internal/cache"
	"logtrail/internal/reqlog"
	cache_utils "logtrail/internal/util/cache"
	"logtrail/internal/util/logger"
)

var timelineRepository = &TimelineRepository{}

var timelineWorkerService = NewTimelineWorkerService(
	timelineRepository,
	cache_utils.NewValkeyQueueService(),
	logger.GetLogger(),
)

var timelineCleanupService = NewTimelineCleanupService(
	timelineRepository,
	logger.GetLogger(),
)

var timelineService = NewTimelineService(
	timelineRepository,
	reqlog.GetAggregator(),
	reqlog.GetOperationWrapper(),
	cache_utils.NewCacheUtil[TimelineStatsResponse](cache.GetCache(), "timelines:stats:"),
	cache_utils.NewValkeyQueueService(),
)

var timelineController = &TimelineController{
	getTimelines: reqlog.Wrap(
		reqlog.GetOperationWrapper(),
		reqlog.LayerApplication,
		"",
		timelineService.GetTimelines,
	),
	getTimelineStats: reqlog.WrapFunc(
		reqlog.GetOperationWrapper(),
		reqlog.LayerApplication,
		"",
		timelineService.GetTimelineStats,
	),
}

func GetTimelineWorkerService() *TimelineWorkerService {
	return timelineWorkerService
}

func GetTimelineCleanupService() *TimelineCleanupService {
	return timelineCleanupService
}

func GetTimelineService() *TimelineService {
	return timelineService
}

func GetTimelineController() *TimelineController {
	return timelineController
}

// SetupDependencies routes finalized timelines both to the structured log
// and to the persistence queue.
func SetupDependencies() {
	reqlog.GetAggregator().SetSink(reqlog.NewMultiSink(
		reqlog.NewSlogSink(logger.GetLogger()),
		NewQueueSink(cache_utils.NewValkeyQueueService(), logger.GetLogger()),
	))
}
