package reqlog

import (
	"strings"
	"sync"
	"time"
)

// LogEvent is one structured observation recorded while a request is being
// processed. Events are immutable once appended; the RequestContext they
// were appended to is their only owner.
type LogEvent struct {
	Timestamp time.Time
	Layer     Layer
	Operation string
	Level     LogLevel
	Message   string
	Context   map[string]any
	Error     error
}

// TimelineEvent is the emitted form of a LogEvent: ISO timestamp,
// upper-cased level defaulting to INFO, optional fields dropped when empty.
type TimelineEvent struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Layer     string         `json:"layer,omitempty"`
	Operation string         `json:"operation,omitempty"`
	Error     string         `json:"error,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

func (e *LogEvent) toTimelineEvent() TimelineEvent {
	level := e.Level
	if !level.IsValid() {
		level = LogLevelInfo
	}

	layer := e.Layer
	if !layer.IsValid() {
		layer = ""
	}

	timelineEvent := TimelineEvent{
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
		Level:     strings.ToUpper(string(level)),
		Message:   e.Message,
		Layer:     string(layer),
		Operation: e.Operation,
		Context:   e.Context,
	}

	if e.Error != nil {
		timelineEvent.Error = e.Error.Error()
	}

	return timelineEvent
}

// RequestContext accumulates the events, metadata and timing of one inbound
// request. Exactly one instance is live per logical request; concurrent
// requests own disjoint instances. Events only ever grow, in call order.
type RequestContext struct {
	StartTime time.Time
	Path      string
	Method    string
	Metadata  map[string]any

	// Handlers may fan work out to goroutines, so appends are guarded.
	// Sequential callers still observe strict insertion order.
	mu     sync.Mutex
	events []*LogEvent
	closed bool
}

func NewRequestContext(path string, method string, metadata map[string]any) *RequestContext {
	return &RequestContext{
		StartTime: time.Now().UTC(),
		Path:      path,
		Method:    method,
		Metadata:  metadata,
	}
}

func (rc *RequestContext) appendEvent(event *LogEvent) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		return
	}

	rc.events = append(rc.events, event)
}

// close transitions the context to its terminal state and hands back the
// recorded events. The second return reports whether it was already closed,
// so finalization can stay exactly-once.
func (rc *RequestContext) close() ([]*LogEvent, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		return nil, true
	}

	rc.closed = true

	return rc.events, false
}
