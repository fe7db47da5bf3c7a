package reqlog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fixedIDGenerator struct {
	id string
}

func (g fixedIDGenerator) Generate() string {
	return g.id
}

func newMiddlewareTestRouter(aggregator *Aggregator, generator CorrelationIDGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestMiddleware(aggregator, generator, false))

	return router
}

func Test_RequestMiddleware_EmitsOneTimelinePerRequest(t *testing.T) {
	aggregator, sink := newTestAggregator()
	router := newMiddlewareTestRouter(aggregator, fixedIDGenerator{id: "corr-1"})

	router.GET("/items/:id", func(c *gin.Context) {
		aggregator.Info(c.Request.Context(), "looked up item", nil)
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, sink.Emissions(), 1)

	emission := sink.Emissions()[0]
	assert.Equal(t, "GET /items/:id", emission.Message)
	assert.Equal(t, "corr-1", emission.Summary["correlationId"])
	assert.Len(t, emission.Timeline, 1)
	assert.Equal(t, "looked up item", emission.Timeline[0].Message)
}

func Test_RequestMiddleware_CorrelationIDReachableFromHandler(t *testing.T) {
	aggregator, _ := newTestAggregator()
	router := newMiddlewareTestRouter(aggregator, fixedIDGenerator{id: "corr-9"})

	var observed string
	router.GET("/ping", func(c *gin.Context) {
		observed = CorrelationID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "corr-9", observed)
}

func Test_RequestMiddleware_HandlerReportsError_RecordsRequestError(t *testing.T) {
	aggregator, sink := newTestAggregator()
	router := newMiddlewareTestRouter(aggregator, UUIDGenerator{})

	router.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("downstream unavailable"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/broken", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Len(t, sink.Emissions(), 1)

	timeline := sink.Emissions()[0].Timeline
	assert.Len(t, timeline, 1)
	assert.Equal(t, "request_error", timeline[0].Operation)
	assert.Equal(t, "ERROR", timeline[0].Level)
	assert.Equal(t, "downstream unavailable", timeline[0].Error)
}

func Test_RequestMiddleware_ServerErrorStatusWithoutGinError_StillFails(t *testing.T) {
	aggregator, sink := newTestAggregator()
	router := newMiddlewareTestRouter(aggregator, UUIDGenerator{})

	router.GET("/teapot-on-fire", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/teapot-on-fire", nil))

	assert.Len(t, sink.Emissions(), 1)
	timeline := sink.Emissions()[0].Timeline
	assert.Len(t, timeline, 1)
	assert.Equal(t, "request_error", timeline[0].Operation)
}

func Test_RequestMiddleware_Disabled_NoContextAndNoEmission(t *testing.T) {
	aggregator, sink := newTestAggregator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestMiddleware(aggregator, UUIDGenerator{}, true))

	router.GET("/quiet", func(c *gin.Context) {
		assert.Nil(t, Current(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/quiet", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, sink.Emissions())
}

func Test_RequestMiddleware_ConcurrentRequests_DisjointTimelines(t *testing.T) {
	aggregator, sink := newTestAggregator()
	router := newMiddlewareTestRouter(aggregator, UUIDGenerator{})

	gate := make(chan struct{})

	router.GET("/slow", func(c *gin.Context) {
		aggregator.Info(c.Request.Context(), "slow event", nil)
		<-gate
		aggregator.Info(c.Request.Context(), "slow event tail", nil)
		c.Status(http.StatusOK)
	})
	router.GET("/fast", func(c *gin.Context) {
		aggregator.Info(c.Request.Context(), "fast event", nil)
		c.Status(http.StatusOK)
	})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/slow", nil))
	}()

	go func() {
		defer wg.Done()
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/fast", nil))
		close(gate)
	}()

	wg.Wait()

	emissions := sink.Emissions()
	assert.Len(t, emissions, 2)

	for _, emission := range emissions {
		switch emission.Summary["path"] {
		case "/slow":
			assert.Len(t, emission.Timeline, 2)
			assert.Equal(t, "slow event", emission.Timeline[0].Message)
			assert.Equal(t, "slow event tail", emission.Timeline[1].Message)
		case "/fast":
			assert.Len(t, emission.Timeline, 1)
			assert.Equal(t, "fast event", emission.Timeline[0].Message)
		default:
			t.Fatalf("unexpected path: %v", emission.Summary["path"])
		}
	}
}
