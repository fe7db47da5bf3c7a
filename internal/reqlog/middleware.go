package reqlog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDGenerator produces one id per inbound request.
type CorrelationIDGenerator interface {
	Generate() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	return uuid.New().String()
}

// RequestMiddleware is the request boundary of the aggregation subsystem:
// it assigns a correlation id, opens the RequestContext for the handler's
// whole call tree and guarantees a single timeline emission per request.
// Handler-reported errors (gin.Context.Error) and 5xx responses count as
// the failure path; panics finalize and continue to the recovery layer.
// With disabled set the middleware is a plain passthrough.
func RequestMiddleware(
	aggregator *Aggregator,
	generator CorrelationIDGenerator,
	disabled bool,
) gin.HandlerFunc {
	if disabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		correlationID := generator.Generate()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		_, _ = RunWithContext(
			c.Request.Context(),
			aggregator,
			path,
			c.Request.Method,
			map[string]any{"correlationId": correlationID},
			func(ctx context.Context) (any, error) {
				ctx = WithCorrelationID(ctx, correlationID)
				c.Request = c.Request.WithContext(ctx)

				c.Next()

				if len(c.Errors) > 0 {
					return nil, c.Errors.Last().Err
				}
				if c.Writer.Status() >= http.StatusInternalServerError {
					return nil, fmt.Errorf("request failed with status %d", c.Writer.Status())
				}

				return nil, nil
			},
		)
	}
}
