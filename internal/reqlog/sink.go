package reqlog

import "log/slog"

// Sink receives exactly one emission per finalized request. Implementations
// decide serialization and transport; the aggregator's contract ends at
// producing the two payloads and calling Emit once.
type Sink interface {
	Emit(message string, timeline []TimelineEvent, summary map[string]any)
}

// SlogSink writes each timeline as a single structured log line.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(message string, timeline []TimelineEvent, summary map[string]any) {
	s.logger.Info(message,
		slog.Any("timeline", timeline),
		slog.Any("summary", summary),
	)
}

// MultiSink fans one emission out to several sinks.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Emit(message string, timeline []TimelineEvent, summary map[string]any) {
	for _, sink := range s.sinks {
		sink.Emit(message, timeline, summary)
	}
}
