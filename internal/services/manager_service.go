package services

import (
	"errors"
	"fmt"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// ErrPinInUse is returned when a PIN collides with another active assignment
// at the same hotel.
var ErrPinInUse = errors.New("pin code already in use at this hotel")

// --- Manager Assignment DTOs ---

// CreateAssignmentRequest hires a manager at a hotel. Compensation amounts
// are user-facing decimals; nil terms contribute nothing to the payout.
type CreateAssignmentRequest struct {
	ManagerName     string   `json:"manager_name" binding:"required"`
	PinCode         string   `json:"pin_code" binding:"required"`
	ShiftPayAmount  *float64 `json:"shift_pay_amount"`
	RevenueSharePct *int64   `json:"revenue_share_pct"`
	BonusThreshold  *float64 `json:"bonus_threshold"`
	BonusAmount     *float64 `json:"bonus_amount"`
}

// UpdateAssignmentRequest amends an assignment. Nil fields are left alone.
type UpdateAssignmentRequest struct {
	ManagerName     *string  `json:"manager_name"`
	PinCode         *string  `json:"pin_code"`
	ShiftPayAmount  *float64 `json:"shift_pay_amount"`
	RevenueSharePct *int64   `json:"revenue_share_pct"`
	BonusThreshold  *float64 `json:"bonus_threshold"`
	BonusAmount     *float64 `json:"bonus_amount"`
	IsActive        *bool    `json:"is_active"`
}

// --- ManagerService Interface ---
type ManagerService interface {
	CreateAssignment(hotelID int64, req CreateAssignmentRequest) (*models.ManagerAssignment, error)
	GetAssignmentByID(assignmentID int64) (*models.ManagerAssignment, error)
	GetAssignmentsByHotel(hotelID int64, includeInactive bool) ([]models.ManagerAssignment, error)
	UpdateAssignment(assignmentID int64, req UpdateAssignmentRequest) (*models.ManagerAssignment, error)
	// DeactivateAssignment soft-removes the assignment; historical shifts
	// keep their manager reference.
	DeactivateAssignment(assignmentID int64) error
}

// --- managerService Implementation ---
type managerService struct {
	managerRepo repositories.ManagerRepository
	hotelRepo   repositories.HotelRepository
	db          repositories.Database
}

// NewManagerService creates a new instance of ManagerService.
func NewManagerService(mr repositories.ManagerRepository, hr repositories.HotelRepository, db repositories.Database) ManagerService {
	return &managerService{managerRepo: mr, hotelRepo: hr, db: db}
}

func optionalMinorUnits(major *float64, field string) (*int64, error) {
	if major == nil {
		return nil, nil
	}
	v, err := ToMinorUnits(*major)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &v, nil
}

func (s *managerService) CreateAssignment(hotelID int64, req CreateAssignmentRequest) (*models.ManagerAssignment, error) {
	if err := ValidatePinCode(req.PinCode); err != nil {
		return nil, err
	}
	if req.RevenueSharePct != nil {
		if err := ValidateSharePct(*req.RevenueSharePct); err != nil {
			return nil, err
		}
	}
	shiftPay, err := optionalMinorUnits(req.ShiftPayAmount, "shift pay")
	if err != nil {
		return nil, err
	}
	bonusThreshold, err := optionalMinorUnits(req.BonusThreshold, "bonus threshold")
	if err != nil {
		return nil, err
	}
	bonusAmount, err := optionalMinorUnits(req.BonusAmount, "bonus amount")
	if err != nil {
		return nil, err
	}

	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for assignment: %w", err)
	}

	assignment := &models.ManagerAssignment{
		HotelID:         hotelID,
		ManagerName:     req.ManagerName,
		PinCode:         req.PinCode,
		ShiftPayAmount:  shiftPay,
		RevenueSharePct: req.RevenueSharePct,
		BonusThreshold:  bonusThreshold,
		BonusAmount:     bonusAmount,
		IsActive:        true,
	}
	if _, err := s.managerRepo.CreateAssignment(s.db, assignment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPinInUse
		}
		return nil, fmt.Errorf("failed to create manager assignment: %w", err)
	}
	return assignment, nil
}

func (s *managerService) GetAssignmentByID(assignmentID int64) (*models.ManagerAssignment, error) {
	assignment, err := s.managerRepo.GetAssignmentByID(assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get manager assignment by ID: %w", err)
	}
	return assignment, nil
}

func (s *managerService) GetAssignmentsByHotel(hotelID int64, includeInactive bool) ([]models.ManagerAssignment, error) {
	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for assignment listing: %w", err)
	}
	assignments, err := s.managerRepo.GetAssignmentsByHotel(hotelID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager assignments: %w", err)
	}
	return assignments, nil
}

func (s *managerService) UpdateAssignment(assignmentID int64, req UpdateAssignmentRequest) (*models.ManagerAssignment, error) {
	assignment, err := s.managerRepo.GetAssignmentByID(assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to fetch assignment for update: %w", err)
	}

	if req.ManagerName != nil {
		if *req.ManagerName == "" {
			return nil, fmt.Errorf("%w: manager name must not be empty", ErrValidation)
		}
		assignment.ManagerName = *req.ManagerName
	}
	if req.PinCode != nil {
		if err := ValidatePinCode(*req.PinCode); err != nil {
			return nil, err
		}
		assignment.PinCode = *req.PinCode
	}
	if req.RevenueSharePct != nil {
		if err := ValidateSharePct(*req.RevenueSharePct); err != nil {
			return nil, err
		}
		assignment.RevenueSharePct = req.RevenueSharePct
	}
	if req.ShiftPayAmount != nil {
		v, err := optionalMinorUnits(req.ShiftPayAmount, "shift pay")
		if err != nil {
			return nil, err
		}
		assignment.ShiftPayAmount = v
	}
	if req.BonusThreshold != nil {
		v, err := optionalMinorUnits(req.BonusThreshold, "bonus threshold")
		if err != nil {
			return nil, err
		}
		assignment.BonusThreshold = v
	}
	if req.BonusAmount != nil {
		v, err := optionalMinorUnits(req.BonusAmount, "bonus amount")
		if err != nil {
			return nil, err
		}
		assignment.BonusAmount = v
	}
	if req.IsActive != nil {
		assignment.IsActive = *req.IsActive
	}

	if err := s.managerRepo.UpdateAssignment(s.db, assignment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPinInUse
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to update manager assignment: %w", err)
	}
	return assignment, nil
}

func (s *managerService) DeactivateAssignment(assignmentID int64) error {
	if err := s.managerRepo.DeactivateAssignment(s.db, assignmentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrManagerNotFound
		}
		return fmt.Errorf("failed to deactivate manager assignment: %w", err)
	}
	return nil
}
