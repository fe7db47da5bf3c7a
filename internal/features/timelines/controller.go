package timelines

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TimelineController struct {
	getTimelines     func(context.Context, *GetTimelinesRequest) (*GetTimelinesResponse, error)
	getTimelineStats func(context.Context) (*TimelineStatsResponse, error)
}

func (c *TimelineController) RegisterRoutes(router *gin.RouterGroup) {
	// Requires authentication (handled in main.go)
	timelineRoutes := router.Group("/timelines")

	timelineRoutes.GET("", c.GetTimelines)
	timelineRoutes.GET("/stats", c.GetTimelineStats)
}

// GetTimelines
// @Summary List persisted request timelines
// @Description Retrieve aggregated request timelines, newest first
// @Tags timelines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param method query string false "Filter by HTTP method"
// @Param path query string false "Filter by route path"
// @Param beforeDate query string false "Filter timelines created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetTimelinesResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /timelines [get]
func (c *TimelineController) GetTimelines(ctx *gin.Context) {
	request := &GetTimelinesRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.getTimelines(ctx.Request.Context(), request)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve timelines"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetTimelineStats
// @Summary Get timeline statistics
// @Description Retrieve totals and average request duration over the last 24 hours
// @Tags timelines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TimelineStatsResponse
// @Failure 401 {object} map[string]string
// @Router /timelines/stats [get]
func (c *TimelineController) GetTimelineStats(ctx *gin.Context) {
	response, err := c.getTimelineStats(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve timeline stats"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
