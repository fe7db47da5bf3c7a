package reqlog

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"logtrail/internal/config"
)

// OperationWrapper surrounds business operations with automatic
// start/success/error events so use-case methods do not hand-roll them.
// With disabled set (test and bench runs) wrapping is a plain passthrough.
type OperationWrapper struct {
	aggregator *Aggregator
	disabled   bool
}

func NewOperationWrapper(aggregator *Aggregator, disabled bool) *OperationWrapper {
	return &OperationWrapper{
		aggregator: aggregator,
		disabled:   disabled,
	}
}

// Wrap instruments op with "{operation}_start", "{operation}_success" and
// "{operation}_failed" events recorded into whichever RequestContext is
// current at call time. Arguments and results ride along as event context
// when verbose instrumentation is enabled. Errors pass through unchanged.
// An empty operation name is derived from op's method name.
func Wrap[Req any, Res any](
	w *OperationWrapper,
	layer Layer,
	operation string,
	op func(context.Context, Req) (Res, error),
) func(context.Context, Req) (Res, error) {
	if w.disabled {
		return op
	}

	if operation == "" {
		operation = deriveOperationName(op)
	}

	return func(ctx context.Context, request Req) (Res, error) {
		startEvent := &LogEvent{
			Layer:     layer,
			Operation: operation + "_start",
			Level:     LogLevelInfo,
			Message:   "Starting " + operation,
		}
		if config.IsVerboseInstrumentationEnabled() {
			startEvent.Context = map[string]any{"args": request}
		}
		w.aggregator.AddEvent(ctx, startEvent)

		result, err := op(ctx, request)
		if err != nil {
			w.aggregator.AddEvent(ctx, &LogEvent{
				Layer:     layer,
				Operation: operation + "_failed",
				Level:     LogLevelError,
				Message:   "Failed " + operation,
				Error:     err,
			})

			return result, err
		}

		successEvent := &LogEvent{
			Layer:     layer,
			Operation: operation + "_success",
			Level:     LogLevelInfo,
			Message:   "Completed " + operation,
		}
		if config.IsVerboseInstrumentationEnabled() {
			successEvent.Context = map[string]any{"result": result}
		}
		w.aggregator.AddEvent(ctx, successEvent)

		return result, nil
	}
}

// WrapFunc is Wrap for operations that take no request argument.
func WrapFunc[Res any](
	w *OperationWrapper,
	layer Layer,
	operation string,
	op func(context.Context) (Res, error),
) func(context.Context) (Res, error) {
	if w.disabled {
		return op
	}

	if operation == "" {
		operation = deriveOperationName(op)
	}

	wrapped := Wrap(w, layer, operation, func(ctx context.Context, _ struct{}) (Res, error) {
		return op(ctx)
	})

	return func(ctx context.Context) (Res, error) {
		return wrapped(ctx, struct{}{})
	}
}

// deriveOperationName turns a method value like
// (*TimelineService).GetTimelines-fm into "get_timelines".
func deriveOperationName(op any) string {
	name := runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	name = strings.TrimSuffix(name, "-fm")

	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	for _, suffix := range []string{"UseCase", "Service", "Handler"} {
		name = strings.TrimSuffix(name, suffix)
	}

	return toSnakeCase(name)
}

func toSnakeCase(name string) string {
	var builder strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				builder.WriteByte('_')
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}

		builder.WriteRune(r)
	}

	return builder.String()
}
