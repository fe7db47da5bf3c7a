package system_healthcheck

import (
	"logtrail/internal/util/logger"
)

var healthcheckService = &HealthcheckService{
	logger.GetLogger(),
}
var healthcheckController = &HealthcheckController{
	healthcheckService,
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
