package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type AuthController struct {
	authService  *AuthService
	tokenLimiter *rate.Limiter
}

func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/token", c.IssueToken)
}

// IssueToken
// @Summary Exchange the access password for a bearer token
// @Description Issue a JWT for querying persisted timelines
// @Tags auth
// @Accept json
// @Produce json
// @Param request body IssueTokenRequestDTO true "Access credentials"
// @Success 200 {object} IssueTokenResponseDTO
// @Failure 400
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /auth/token [post]
func (c *AuthController) IssueToken(ctx *gin.Context) {
	// We use rate limiter to prevent brute force attacks
	if !c.tokenLimiter.Allow() {
		ctx.JSON(
			http.StatusTooManyRequests,
			gin.H{"error": "Rate limit exceeded. Please try again later."},
		)
		return
	}

	var request IssueTokenRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.authService.IssueToken(ctx.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
