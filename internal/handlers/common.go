package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive int64 path parameter or responds 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" parameter.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// currentUserID reads the authenticated user's ID placed in the context by
// the auth middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return 0, false
	}
	userID, ok := raw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", "Invalid user ID format in context"))
		return 0, false
	}
	return userID, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation -> 400, credential/PIN failures -> 401, missing entities -> 404,
// state conflicts -> 409, everything else -> 500. Every handler funnels
// service errors through here so the mapping cannot drift between endpoints.
func respondServiceError(c *gin.Context, err error, logContext string) {
	utils.LogError(err, logContext)

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrPinMismatch):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication failed.", err.Error()))
	case errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrShiftNotFound),
		errors.Is(err, services.ErrManagerNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrStayNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRecipientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error()))
	case errors.Is(err, services.ErrShiftAlreadyOpen),
		errors.Is(err, services.ErrShiftNotOpen),
		errors.Is(err, services.ErrNoOpenShift),
		errors.Is(err, services.ErrRoomNotAvailable),
		errors.Is(err, services.ErrRoomOccupied),
		errors.Is(err, services.ErrStayNotActive),
		errors.Is(err, services.ErrPinInUse),
		errors.Is(err, services.ErrUsernameExists),
		errors.Is(err, services.ErrHotelNotEmpty):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Operation conflicts with current state.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", "Internal error"))
	}
}

// paginatedResponse is the standard list envelope.
type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func queryInt64Ptr(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func queryStrPtr(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if utils.IsEmpty(raw) {
		return nil
	}
	return &raw
}
