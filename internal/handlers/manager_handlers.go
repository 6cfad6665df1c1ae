package handlers

import (
	"net/http"

	"hotel_desk_backend/internal/services"
	"hotel_desk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ManagerHandler holds the manager-assignment and payout services.
type ManagerHandler struct {
	managerService services.ManagerService
	payoutService  services.PayoutService
}

// NewManagerHandler creates a new ManagerHandler.
func NewManagerHandler(ms services.ManagerService, ps services.PayoutService) *ManagerHandler {
	return &ManagerHandler{managerService: ms, payoutService: ps}
}

// CreateAssignment hires a manager at a hotel.
func (h *ManagerHandler) CreateAssignment(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	assignment, err := h.managerService.CreateAssignment(hotelID, req)
	if err != nil {
		respondServiceError(c, err, "CreateAssignment")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// GetAssignmentsByHotel lists a hotel's manager assignments.
func (h *ManagerHandler) GetAssignmentsByHotel(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	assignments, err := h.managerService.GetAssignmentsByHotel(hotelID, includeInactive)
	if err != nil {
		respondServiceError(c, err, "GetAssignmentsByHotel")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// GetAssignmentByID returns one manager assignment.
func (h *ManagerHandler) GetAssignmentByID(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.managerService.GetAssignmentByID(assignmentID)
	if err != nil {
		respondServiceError(c, err, "GetAssignmentByID")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// UpdateAssignment amends an assignment's terms, PIN or active flag.
func (h *ManagerHandler) UpdateAssignment(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	assignment, err := h.managerService.UpdateAssignment(assignmentID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateAssignment")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// DeactivateAssignment soft-removes an assignment.
func (h *ManagerHandler) DeactivateAssignment(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.managerService.DeactivateAssignment(assignmentID); err != nil {
		respondServiceError(c, err, "DeactivateAssignment")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPayoutReport returns the manager's per-shift payout breakdown with
// expected/paid/pending totals.
func (h *ManagerHandler) GetPayoutReport(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.payoutService.GetManagerPayoutReport(assignmentID)
	if err != nil {
		respondServiceError(c, err, "GetPayoutReport")
		return
	}
	c.JSON(http.StatusOK, report)
}
