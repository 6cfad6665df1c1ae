package handlers

import (
	"net/http"

	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler holds the room service.
type RoomHandler struct {
	roomService services.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rs services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: rs}
}

// CreateRoom adds a room to a hotel's inventory.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	room, err := h.roomService.CreateRoom(hotelID, req)
	if err != nil {
		respondServiceError(c, err, "CreateRoom")
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRoomsByHotel lists a hotel's rooms. ?include_inactive=true adds
// retired rooms.
func (h *RoomHandler) GetRoomsByHotel(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	rooms, err := h.roomService.GetRoomsByHotel(hotelID, includeInactive)
	if err != nil {
		respondServiceError(c, err, "GetRoomsByHotel")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoomByID returns one room.
func (h *RoomHandler) GetRoomByID(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoomByID(roomID)
	if err != nil {
		respondServiceError(c, err, "GetRoomByID")
		return
	}
	c.JSON(http.StatusOK, room)
}

// UpdateRoom amends room attributes.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	room, err := h.roomService.UpdateRoom(roomID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateRoom")
		return
	}
	c.JSON(http.StatusOK, room)
}

// MarkRoomClean flips a DIRTY room back to AVAILABLE.
func (h *RoomHandler) MarkRoomClean(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.MarkRoomClean(roomID)
	if err != nil {
		respondServiceError(c, err, "MarkRoomClean")
		return
	}
	c.JSON(http.StatusOK, room)
}
