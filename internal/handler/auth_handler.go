package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sportscast/sportscast-api-go/internal/models"
	"github.com/sportscast/sportscast-api-go/internal/service"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new account and returns a session token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	logger.Log.Info("User signed up", zap.String("userId", user.ID.String()))

	c.JSON(http.StatusCreated, models.AuthResponseDTO{
		Token: token,
		User:  user,
	})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponseDTO{
		Token: token,
		User:  user,
	})
}
