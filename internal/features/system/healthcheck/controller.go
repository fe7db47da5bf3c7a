package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/healthcheck", c.GetHealthStatus)
}

// GetHealthStatus
// @Summary Service health status
// @Description Check database and cache availability plus host resource usage
// @Tags system
// @Produce json
// @Success 200 {object} HealthStatusResponse
// @Failure 503 {object} map[string]string
// @Router /system/healthcheck [get]
func (c *HealthcheckController) GetHealthStatus(ctx *gin.Context) {
	status, err := c.healthcheckService.GetStatus()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, status)
}
