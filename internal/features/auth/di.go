package auth

import (
	"time"

	"logtrail/internal/config"
	"logtrail/internal/reqlog"
	"logtrail/internal/util/logger"

	"golang.org/x/time/rate"
)

var authService = NewAuthService(
	config.GetEnv().AuthJwtSecret,
	config.GetEnv().AccessPassword,
	reqlog.GetAggregator(),
	logger.GetLogger(),
)

var authController = &AuthController{
	authService:  authService,
	tokenLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
}

func GetAuthService() *AuthService {
	return authService
}

func GetAuthController() *AuthController {
	return authController
}
