package reqlog

import (
	"logtrail/internal/config"
	"logtrail/internal/util/logger"
)

var aggregator = NewAggregator(
	NewSlogSink(logger.GetLogger()),
	logger.GetLogger(),
)

var operationWrapper = NewOperationWrapper(
	aggregator,
	config.IsInstrumentationDisabled(),
)

func GetAggregator() *Aggregator {
	return aggregator
}

func GetOperationWrapper() *OperationWrapper {
	return operationWrapper
}
