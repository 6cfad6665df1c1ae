package handlers

import (
	"net/http"

	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// HotelHandler holds the hotel service.
type HotelHandler struct {
	hotelService services.HotelService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(hs services.HotelService) *HotelHandler {
	return &HotelHandler{hotelService: hs}
}

// CreateHotel registers a new property.
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	var req services.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	hotel, err := h.hotelService.CreateHotel(req)
	if err != nil {
		respondServiceError(c, err, "CreateHotel")
		return
	}
	c.JSON(http.StatusCreated, hotel)
}

// GetHotels lists hotels with pagination.
func (h *HotelHandler) GetHotels(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	hotels, totalCount, err := h.hotelService.GetHotels(page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetHotels")
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{Data: hotels, TotalCount: totalCount, Page: page, PageSize: pageSize})
}

// GetHotelByID returns one hotel.
func (h *HotelHandler) GetHotelByID(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetHotelByID(hotelID)
	if err != nil {
		respondServiceError(c, err, "GetHotelByID")
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// UpdateHotel amends hotel attributes.
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	hotel, err := h.hotelService.UpdateHotel(hotelID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateHotel")
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel removes a hotel and everything under it.
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.hotelService.DeleteHotel(hotelID); err != nil {
		respondServiceError(c, err, "DeleteHotel")
		return
	}
	c.Status(http.StatusNoContent)
}
