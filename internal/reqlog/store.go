package reqlog

import "context"

// The RequestContext travels inside context.Context, so any code on the
// request's call graph can reach it without parameter threading, and
// concurrent requests can never observe each other's contexts.

type requestContextKey struct{}

type correlationIDKey struct{}

// With establishes rc as the current RequestContext for every call that
// receives the returned context.
func With(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// Current returns the RequestContext active for the calling flow, or nil
// when called outside any request scope. A nil result is not an error:
// recording into "none" is a no-op.
func Current(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)

	return rc
}

// WithCorrelationID stores the request's correlation id alongside the
// RequestContext instead of in any process-global slot.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationID returns the id assigned at the request boundary, or ""
// outside a request scope.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	correlationID, _ := ctx.Value(correlationIDKey{}).(string)

	return correlationID
}
