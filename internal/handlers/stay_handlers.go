package handlers

import (
	"net/http"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StayHandler holds the room-stay service.
type StayHandler struct {
	stayService services.StayService
}

// NewStayHandler creates a new StayHandler.
func NewStayHandler(ss services.StayService) *StayHandler {
	return &StayHandler{stayService: ss}
}

// CheckIn checks a guest into a room and posts the payment to the open
// shift's ledger.
func (h *StayHandler) CheckIn(c *gin.Context) {
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	stay, err := h.stayService.CheckIn(req)
	if err != nil {
		respondServiceError(c, err, "CheckIn")
		return
	}
	c.JSON(http.StatusCreated, stay)
}

// CheckOut completes a stay and marks the room for housekeeping.
func (h *StayHandler) CheckOut(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.CheckOut(stayID)
	if err != nil {
		respondServiceError(c, err, "CheckOut")
		return
	}
	c.JSON(http.StatusOK, stay)
}

// CancelStay voids a non-terminal stay and frees the room.
func (h *StayHandler) CancelStay(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.CancelStay(stayID)
	if err != nil {
		respondServiceError(c, err, "CancelStay")
		return
	}
	c.JSON(http.StatusOK, stay)
}

// GetStays lists stays filtered by room, shift and status.
func (h *StayHandler) GetStays(c *gin.Context) {
	filters := models.StayFilters{
		RoomID:   queryInt64Ptr(c, "room_id"),
		ShiftID:  queryInt64Ptr(c, "shift_id"),
		Status:   queryStrPtr(c, "status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	stays, totalCount, err := h.stayService.GetStays(filters)
	if err != nil {
		respondServiceError(c, err, "GetStays")
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{Data: stays, TotalCount: totalCount, Page: filters.Page, PageSize: filters.PageSize})
}

// GetStayByID returns one stay.
func (h *StayHandler) GetStayByID(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.GetStayByID(stayID)
	if err != nil {
		respondServiceError(c, err, "GetStayByID")
		return
	}
	c.JSON(http.StatusOK, stay)
}

// AdminEditStay rewrites stay fields directly (admin only).
func (h *StayHandler) AdminEditStay(c *gin.Context) {
	stayID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorUserID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AdminStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	stay, err := h.stayService.AdminEditStay(stayID, req, actorUserID)
	if err != nil {
		respondServiceError(c, err, "AdminEditStay")
		return
	}
	c.JSON(http.StatusOK, stay)
}
