package handlers

import (
	"net/http"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftHandler holds the shift and ledger services.
type ShiftHandler struct {
	shiftService  services.ShiftService
	ledgerService services.LedgerService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(ss services.ShiftService, ls services.LedgerService) *ShiftHandler {
	return &ShiftHandler{shiftService: ss, ledgerService: ls}
}

// OpenShift starts a new shift at a hotel, authenticated by manager PIN.
func (h *ShiftHandler) OpenShift(c *gin.Context) {
	var req services.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.OpenShift(req)
	if err != nil {
		respondServiceError(c, err, "OpenShift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// CloseShift performs the close/handover transition for an open shift.
func (h *ShiftHandler) CloseShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.CloseShift(shiftID, req)
	if err != nil {
		respondServiceError(c, err, "CloseShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetShifts lists shifts filtered by hotel, manager, status and opened-at
// window.
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	filters := models.ShiftFilters{
		HotelID:   queryInt64Ptr(c, "hotel_id"),
		ManagerID: queryInt64Ptr(c, "manager_id"),
		Status:    queryStrPtr(c, "status"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	if raw := c.Query("opened_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondValidationFailed(c, "opened_from must be RFC3339")
			return
		}
		filters.OpenedFrom = &t
	}
	if raw := c.Query("opened_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondValidationFailed(c, "opened_to must be RFC3339")
			return
		}
		filters.OpenedTo = &t
	}

	shifts, totalCount, err := h.shiftService.GetShifts(filters)
	if err != nil {
		respondServiceError(c, err, "GetShifts")
		return
	}
	c.JSON(http.StatusOK, paginatedResponse{Data: shifts, TotalCount: totalCount, Page: filters.Page, PageSize: filters.PageSize})
}

// GetShiftByID returns one shift.
func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shift, err := h.shiftService.GetShiftByID(shiftID)
	if err != nil {
		respondServiceError(c, err, "GetShiftByID")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetShiftSnapshot returns the derived financial picture of a shift: ledger
// totals, drawer balance and payout summary.
func (h *ShiftHandler) GetShiftSnapshot(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	snapshot, err := h.shiftService.GetShiftSnapshot(shiftID)
	if err != nil {
		respondServiceError(c, err, "GetShiftSnapshot")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RecordLedgerEntry appends a cash/card movement to an open shift.
func (h *ShiftHandler) RecordLedgerEntry(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	var recordedBy *int64
	if userID, exists := c.Get("userID"); exists {
		if id, isInt64 := userID.(int64); isInt64 {
			recordedBy = &id
		}
	}

	entry, err := h.ledgerService.RecordEntry(shiftID, req, recordedBy)
	if err != nil {
		respondServiceError(c, err, "RecordLedgerEntry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetLedgerEntries lists a shift's ledger entries in recording order.
func (h *ShiftHandler) GetLedgerEntries(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.ledgerService.GetEntriesForShift(shiftID)
	if err != nil {
		respondServiceError(c, err, "GetLedgerEntries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AdminCreateShift creates a shift out of band (admin only).
func (h *ShiftHandler) AdminCreateShift(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorUserID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AdminShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.AdminCreateShift(hotelID, req, actorUserID)
	if err != nil {
		respondServiceError(c, err, "AdminCreateShift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// AdminEditShift rewrites shift fields directly (admin only).
func (h *ShiftHandler) AdminEditShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorUserID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AdminShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.AdminEditShift(shiftID, req, actorUserID)
	if err != nil {
		respondServiceError(c, err, "AdminEditShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// ClearClosedShifts deletes a hotel's closed shift history and its ledger
// entries (admin only).
func (h *ShiftHandler) ClearClosedShifts(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorUserID, ok := currentUserID(c)
	if !ok {
		return
	}

	deleted, err := h.shiftService.ClearClosedShifts(hotelID, actorUserID)
	if err != nil {
		respondServiceError(c, err, "ClearClosedShifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_shifts": deleted})
}
