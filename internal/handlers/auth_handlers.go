package handlers

import (
	"net/http"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterUser handles console user registration.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req models.RegistrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	user, err := h.authService.RegisterUser(req)
	if err != nil {
		respondServiceError(c, err, "RegisterUser")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// LoginUser handles user login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.LoginUser(req)
	if err != nil {
		respondServiceError(c, err, "LoginUser")
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "RefreshToken")
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser retrieves the profile of the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserProfile(userID)
	if err != nil {
		respondServiceError(c, err, "GetCurrentUser")
		return
	}
	c.JSON(http.StatusOK, user)
}

// LogoutUser acknowledges logout. Tokens are stateless; the client discards
// them.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your token."})
}
