package auth

import (
	"net/http"
	"testing"
	"time"

	"logtrail/internal/reqlog"
	"logtrail/internal/util/logger"
	test_utils "logtrail/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func createAuthTestRouter(accessPassword string) (*gin.Engine, *AuthService) {
	gin.SetMode(gin.TestMode)

	log := logger.GetLogger()
	aggregator := reqlog.NewAggregator(reqlog.NewSlogSink(log), log)
	service := NewAuthService("test-secret", accessPassword, aggregator, log)

	controller := &AuthController{
		authService:  service,
		tokenLimiter: rate.NewLimiter(rate.Inf, 1),
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	controller.RegisterRoutes(v1)

	return router, service
}

func Test_IssueTokenEndpoint_WithCorrectPassword_ReturnsToken(t *testing.T) {
	router, service := createAuthTestRouter("secret-password")

	var response IssueTokenResponseDTO
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		"/api/v1/auth/token",
		"",
		IssueTokenRequestDTO{Password: "secret-password"},
		http.StatusOK,
		&response,
	)

	assert.NotEmpty(t, response.Token)
	assert.True(t, response.ExpiresAt.After(time.Now().UTC()))
	assert.NoError(t, service.ValidateToken(response.Token))
}

func Test_IssueTokenEndpoint_WithWrongPassword_Returns401(t *testing.T) {
	router, _ := createAuthTestRouter("secret-password")

	test_utils.MakePostRequest(
		t,
		router,
		"/api/v1/auth/token",
		"",
		IssueTokenRequestDTO{Password: "wrong"},
		http.StatusUnauthorized,
	)
}

func Test_IssueTokenEndpoint_WithMissingPassword_Returns400(t *testing.T) {
	router, _ := createAuthTestRouter("secret-password")

	test_utils.MakePostRequest(
		t,
		router,
		"/api/v1/auth/token",
		"",
		map[string]string{},
		http.StatusBadRequest,
	)
}

func Test_IssueTokenEndpoint_WhenRateLimitExhausted_Returns429(t *testing.T) {
	_, service := createAuthTestRouter("secret-password")

	limited := &AuthController{
		authService:  service,
		tokenLimiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}

	limitedRouter := gin.New()
	limited.RegisterRoutes(limitedRouter.Group("/api/v1"))

	test_utils.MakePostRequest(
		t,
		limitedRouter,
		"/api/v1/auth/token",
		"",
		IssueTokenRequestDTO{Password: "secret-password"},
		http.StatusOK,
	)
	test_utils.MakePostRequest(
		t,
		limitedRouter,
		"/api/v1/auth/token",
		"",
		IssueTokenRequestDTO{Password: "secret-password"},
		http.StatusTooManyRequests,
	)
}

func Test_ProtectedRoute_WithoutToken_Returns401(t *testing.T) {
	_, service := createAuthTestRouter("secret-password")

	protectedRouter := gin.New()
	protected := protectedRouter.Group("/api/v1")
	protected.Use(AuthMiddleware(service))
	protected.GET("/protected", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	test_utils.MakeGetRequest(t, protectedRouter, "/api/v1/protected", "", http.StatusUnauthorized)
	test_utils.MakeGetRequest(t, protectedRouter, "/api/v1/protected", "Bearer not-a-token", http.StatusUnauthorized)
}

func Test_ProtectedRoute_WithValidToken_Returns200(t *testing.T) {
	router, service := createAuthTestRouter("secret-password")

	var response IssueTokenResponseDTO
	test_utils.MakePostRequestAndUnmarshal(
		t,
		router,
		"/api/v1/auth/token",
		"",
		IssueTokenRequestDTO{Password: "secret-password"},
		http.StatusOK,
		&response,
	)

	protectedRouter := gin.New()
	protected := protectedRouter.Group("/api/v1")
	protected.Use(AuthMiddleware(service))
	protected.GET("/protected", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	test_utils.MakeGetRequest(t, protectedRouter, "/api/v1/protected", "Bearer "+response.Token, http.StatusOK)
}
