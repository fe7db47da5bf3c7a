package reqlog

import (
	"context"
	"log/slog"
	"time"

	"logtrail/internal/config"
)

// Aggregator is the public surface of request-scoped log aggregation:
// it opens request contexts, records events into whichever context is
// current, and emits one timeline per request at finalization.
//
// Recording never fails a request: calls outside a request scope are
// silent no-ops, and sink failures are contained inside FinalizeContext.
type Aggregator struct {
	sink         Sink
	defaultLayer Layer
	logger       *slog.Logger
}

func NewAggregator(sink Sink, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sink:         sink,
		defaultLayer: LayerApplication,
		logger:       logger,
	}
}

// SetSink replaces the emission target. Called once during dependency
// setup, before the server starts handling requests.
func (a *Aggregator) SetSink(sink Sink) {
	a.sink = sink
}

// AddEvent stamps the event with the current time and appends it to the
// current RequestContext. Debug events are dropped unless debug logging is
// enabled at the moment of the call; every other level is always recorded.
func (a *Aggregator) AddEvent(ctx context.Context, event *LogEvent) {
	rc := Current(ctx)
	if rc == nil {
		return
	}

	if event.Level == LogLevelDebug && !config.IsDebugLoggingEnabled() {
		return
	}

	stamped := *event
	stamped.Timestamp = time.Now().UTC()

	rc.appendEvent(&stamped)
}

func (a *Aggregator) Debug(ctx context.Context, message string, eventContext map[string]any) {
	// Short-circuit before even building the event
	if !config.IsDebugLoggingEnabled() {
		return
	}

	a.AddEvent(ctx, &LogEvent{
		Layer:   a.defaultLayer,
		Level:   LogLevelDebug,
		Message: message,
		Context: eventContext,
	})
}

func (a *Aggregator) Info(ctx context.Context, message string, eventContext map[string]any) {
	a.AddEvent(ctx, &LogEvent{
		Layer:   a.defaultLayer,
		Level:   LogLevelInfo,
		Message: message,
		Context: eventContext,
	})
}

func (a *Aggregator) Warn(ctx context.Context, message string, eventContext map[string]any) {
	a.AddEvent(ctx, &LogEvent{
		Layer:   a.defaultLayer,
		Level:   LogLevelWarn,
		Message: message,
		Context: eventContext,
	})
}

func (a *Aggregator) Error(ctx context.Context, message string, err error, eventContext map[string]any) {
	a.AddEvent(ctx, &LogEvent{
		Layer:   a.defaultLayer,
		Level:   LogLevelError,
		Message: message,
		Context: eventContext,
		Error:   err,
	})
}

func (a *Aggregator) Audit(ctx context.Context, message string, eventContext map[string]any) {
	a.AddEvent(ctx, &LogEvent{
		Layer:   a.defaultLayer,
		Level:   LogLevelAudit,
		Message: message,
		Context: eventContext,
	})
}

// FinalizeContext closes the current RequestContext, assembles the timeline
// and summary payloads and emits them through the sink exactly once. It
// no-ops outside a request scope or on an already-closed context, and it
// never panics: finalization runs on exit paths that may already be
// propagating a business error and must not mask it.
func (a *Aggregator) FinalizeContext(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("timeline emission panicked", "panic", r)
		}
	}()

	rc := Current(ctx)
	if rc == nil {
		return
	}

	events, alreadyClosed := rc.close()
	if alreadyClosed {
		return
	}

	timeline := make([]TimelineEvent, 0, len(events))
	for _, event := range events {
		timeline = append(timeline, event.toTimelineEvent())
	}

	summary := map[string]any{
		"duration": time.Since(rc.StartTime).Seconds(),
		"path":     rc.Path,
		"method":   rc.Method,
	}
	for key, value := range rc.Metadata {
		summary[key] = value
	}

	a.sink.Emit(rc.Method+" "+rc.Path, timeline, summary)
}

// RunWithContext constructs a fresh RequestContext, makes it current for
// the dynamic extent of fn, and guarantees exactly one finalization on
// every exit path. A failing fn first gets a request_error event recorded,
// then its error back unchanged; panics finalize and keep unwinding.
func RunWithContext[T any](
	ctx context.Context,
	aggregator *Aggregator,
	path string,
	method string,
	metadata map[string]any,
	fn func(context.Context) (T, error),
) (T, error) {
	rc := NewRequestContext(path, method, metadata)
	runCtx := With(ctx, rc)

	finalized := false
	defer func() {
		if !finalized {
			aggregator.FinalizeContext(runCtx)
		}
	}()

	result, err := fn(runCtx)
	if err != nil {
		aggregator.AddEvent(runCtx, &LogEvent{
			Layer:     LayerAPI,
			Operation: "request_error",
			Level:     LogLevelError,
			Message:   "Request failed",
			Error:     err,
		})
	}

	aggregator.FinalizeContext(runCtx)
	finalized = true

	return result, err
}
