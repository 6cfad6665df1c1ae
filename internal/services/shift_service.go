package services

import (
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"

	"hotel_desk_backend/pkg/utils"
)

// --- Custom Service Errors for Shifts ---
var (
	ErrHotelNotFound     = errors.New("hotel not found")
	ErrShiftAlreadyOpen  = errors.New("hotel already has an open shift")
	ErrPinMismatch       = errors.New("pin code does not match")
	ErrRecipientNotFound = errors.New("handover recipient not found at this hotel")
)

// --- Shift DTOs ---

// OpenShiftRequest opens a new shift. OpeningCash is a user-facing decimal
// amount; the PIN authenticates the manager at the hotel.
type OpenShiftRequest struct {
	HotelID     int64   `json:"hotel_id" binding:"required"`
	Pin         string  `json:"pin" binding:"required"`
	OpeningCash float64 `json:"opening_cash"`
	Note        *string `json:"note"`
}

// CloseShiftRequest performs the handover/close transition. When
// OverrideClosingCash is nil the aggregator's computed balance is persisted;
// an explicit override is stored alongside the computed value for variance
// auditing.
type CloseShiftRequest struct {
	Pin                 string   `json:"pin" binding:"required"`
	HandoverRecipientID *int64   `json:"handover_recipient_id"`
	Note                *string  `json:"note"`
	HandoverNote        *string  `json:"handover_note"`
	OverrideClosingCash *float64 `json:"override_closing_cash"`
}

// AdminShiftRequest is the back-office override payload: any field of a
// shift may be rewritten, bypassing PIN checks. Nil fields are left alone
// on edit; on create, OpenedAt and Status are required.
type AdminShiftRequest struct {
	ManagerID           *int64   `json:"manager_id"`
	Status              *string  `json:"status"`
	OpenedAt            *string  `json:"opened_at"` // RFC3339
	ClosedAt            *string  `json:"closed_at"` // RFC3339
	OpeningCash         *float64 `json:"opening_cash"`
	ClosingCash         *float64 `json:"closing_cash"`
	HandoverCash        *float64 `json:"handover_cash"`
	HandoverRecipientID *int64   `json:"handover_recipient_id"`
	OpeningNote         *string  `json:"opening_note"`
	ClosingNote         *string  `json:"closing_note"`
	HandoverNote        *string  `json:"handover_note"`
}

// --- ShiftService Interface ---
type ShiftService interface {
	OpenShift(req OpenShiftRequest) (*models.Shift, error)
	CloseShift(shiftID int64, req CloseShiftRequest) (*models.Shift, error)
	GetShiftByID(shiftID int64) (*models.Shift, error)
	GetShifts(filters models.ShiftFilters) ([]models.Shift, int, error)
	GetShiftSnapshot(shiftID int64) (*models.ShiftSnapshot, error)

	// Admin override paths. Every call is audit-logged with the acting user.
	AdminCreateShift(hotelID int64, req AdminShiftRequest, actorUserID int64) (*models.Shift, error)
	AdminEditShift(shiftID int64, req AdminShiftRequest, actorUserID int64) (*models.Shift, error)
	ClearClosedShifts(hotelID int64, actorUserID int64) (int64, error)
}

// --- shiftService Implementation ---
type shiftService struct {
	shiftRepo   repositories.ShiftRepository
	ledgerRepo  repositories.LedgerRepository
	managerRepo repositories.ManagerRepository
	hotelRepo   repositories.HotelRepository
	stayRepo    repositories.StayRepository
	db          repositories.Database
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(
	sr repositories.ShiftRepository,
	lr repositories.LedgerRepository,
	mr repositories.ManagerRepository,
	hr repositories.HotelRepository,
	str repositories.StayRepository,
	db repositories.Database,
) ShiftService {
	return &shiftService{
		shiftRepo:   sr,
		ledgerRepo:  lr,
		managerRepo: mr,
		hotelRepo:   hr,
		stayRepo:    str,
		db:          db,
	}
}

func parseDateTime(dateTimeStr string) (time.Time, error) {
	parsedTime, err := time.Parse(time.RFC3339, dateTimeStr)
	if err != nil {
		// Accept local time strings without a zone as a fallback.
		parsedTime, err = time.Parse("2006-01-02T15:04:05", dateTimeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid time format, use RFC3339", ErrValidation)
		}
	}
	return parsedTime, nil
}

// OpenShift creates the hotel's next shift. The partial unique index on open
// shifts is the authoritative check: two racing opens resolve to exactly one
// success, the other surfaces ErrShiftAlreadyOpen.
func (s *shiftService) OpenShift(req OpenShiftRequest) (*models.Shift, error) {
	if err := ValidatePinCode(req.Pin); err != nil {
		return nil, err
	}
	openingCash, err := ToMinorUnits(req.OpeningCash)
	if err != nil {
		return nil, fmt.Errorf("opening cash: %w", err)
	}

	if _, err := s.hotelRepo.GetHotelByID(req.HotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for shift open: %w", err)
	}

	assignment, err := s.managerRepo.GetActiveAssignmentByPin(req.HotelID, req.Pin)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPinMismatch
		}
		return nil, fmt.Errorf("failed to look up manager by pin: %w", err)
	}

	shift := &models.Shift{
		HotelID:     req.HotelID,
		ManagerID:   assignment.ID,
		Status:      models.ShiftStatusOpen,
		OpenedAt:    time.Now(),
		OpeningCash: openingCash,
		OpeningNote: NormalizeNote(req.Note),
	}
	if _, err := s.shiftRepo.CreateShift(s.db, shift); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrShiftAlreadyOpen
		}
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	shift.Manager = assignment
	return shift, nil
}

// CloseShift performs the handover. The computed drawer balance is always
// persisted; the manager may override the declared closing cash, and both
// values are retained so the variance stays auditable.
//
// The whole transition runs in a transaction holding the shift row lock.
// Ledger appends take the same lock, so the balance computed here is final:
// no entry can slip in between reading the ledger and flipping the status.
func (s *shiftService) CloseShift(shiftID int64, req CloseShiftRequest) (*models.Shift, error) {
	if err := ValidatePinCode(req.Pin); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction for shift close: %w", err)
	}
	defer tx.Rollback()

	shift, err := s.shiftRepo.GetShiftForUpdate(tx, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift for close: %w", err)
	}
	if shift.Status != models.ShiftStatusOpen {
		return nil, fmt.Errorf("%w: shift %d", ErrShiftNotOpen, shiftID)
	}

	assignment, err := s.managerRepo.GetAssignmentByID(shift.ManagerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to fetch manager for shift close: %w", err)
	}
	if assignment.PinCode != req.Pin {
		return nil, ErrPinMismatch
	}

	if req.HandoverRecipientID != nil {
		recipient, err := s.managerRepo.GetAssignmentByID(*req.HandoverRecipientID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrRecipientNotFound
			}
			return nil, fmt.Errorf("failed to validate handover recipient: %w", err)
		}
		if recipient.HotelID != shift.HotelID || !recipient.IsActive {
			return nil, ErrRecipientNotFound
		}
	}

	entries, err := s.ledgerRepo.GetEntriesByShift(shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries for shift close: %w", err)
	}
	balance := BalanceFor(shift.OpeningCash, AggregateEntries(entries))
	computed := balance.Cash

	closing := computed
	if req.OverrideClosingCash != nil {
		closing, err = ToMinorUnits(*req.OverrideClosingCash)
		if err != nil {
			return nil, fmt.Errorf("closing cash override: %w", err)
		}
	}

	now := time.Now()
	shift.ClosedAt = &now
	shift.ClosingCash = &closing
	shift.ComputedClosingCash = &computed
	shift.HandoverCash = &closing
	shift.HandoverRecipientID = req.HandoverRecipientID
	shift.ClosingNote = NormalizeNote(req.Note)
	shift.HandoverNote = NormalizeNote(req.HandoverNote)

	if err := s.shiftRepo.CloseShift(tx, shift); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Lost a race with another close of the same shift.
			return nil, fmt.Errorf("%w: shift %d", ErrShiftNotOpen, shiftID)
		}
		return nil, fmt.Errorf("failed to close shift: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shift close: %w", err)
	}
	shift.Manager = assignment
	return shift, nil
}

func (s *shiftService) GetShiftByID(shiftID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShifts(filters models.ShiftFilters) ([]models.Shift, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	shifts, totalCount, err := s.shiftRepo.GetShifts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, totalCount, nil
}

// GetShiftSnapshot derives balances, ledger totals and the payout picture in
// one place. This is the only computation site for these figures; callers
// render them as-is and never recompute.
func (s *shiftService) GetShiftSnapshot(shiftID int64) (*models.ShiftSnapshot, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift for snapshot: %w", err)
	}
	assignment, err := s.managerRepo.GetAssignmentByID(shift.ManagerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to fetch manager for snapshot: %w", err)
	}
	entries, err := s.ledgerRepo.GetEntriesByShift(shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries for snapshot: %w", err)
	}

	totals := AggregateEntries(entries)
	snapshot := &models.ShiftSnapshot{
		Shift:       *shift,
		Totals:      totals,
		Balance:     BalanceFor(shift.OpeningCash, totals),
		Payout:      SummarizePayout(*shift, totals, *assignment),
		EntryCount:  len(entries),
		GeneratedAt: time.Now(),
	}
	if shift.ClosingCash != nil && shift.ComputedClosingCash != nil {
		variance := *shift.ClosingCash - *shift.ComputedClosingCash
		snapshot.ClosingVariance = &variance
	}
	return snapshot, nil
}

// applyAdminShiftFields copies the provided override fields onto the shift.
func (s *shiftService) applyAdminShiftFields(shift *models.Shift, req AdminShiftRequest) error {
	if req.ManagerID != nil {
		assignment, err := s.managerRepo.GetAssignmentByID(*req.ManagerID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrManagerNotFound
			}
			return fmt.Errorf("failed to validate manager for shift override: %w", err)
		}
		if assignment.HotelID != shift.HotelID {
			return fmt.Errorf("%w: manager %d is assigned to another hotel", ErrValidation, *req.ManagerID)
		}
		shift.ManagerID = *req.ManagerID
	}
	if req.Status != nil {
		if !models.IsValidShiftStatus(*req.Status) {
			return fmt.Errorf("%w: unknown shift status '%s'", ErrValidation, *req.Status)
		}
		shift.Status = *req.Status
	}
	if req.OpenedAt != nil {
		t, err := parseDateTime(*req.OpenedAt)
		if err != nil {
			return fmt.Errorf("opened_at: %w", err)
		}
		shift.OpenedAt = t
	}
	if req.ClosedAt != nil {
		t, err := parseDateTime(*req.ClosedAt)
		if err != nil {
			return fmt.Errorf("closed_at: %w", err)
		}
		shift.ClosedAt = &t
	}
	if req.OpeningCash != nil {
		v, err := ToMinorUnits(*req.OpeningCash)
		if err != nil {
			return fmt.Errorf("opening cash: %w", err)
		}
		shift.OpeningCash = v
	}
	if req.ClosingCash != nil {
		v, err := ToMinorUnits(*req.ClosingCash)
		if err != nil {
			return fmt.Errorf("closing cash: %w", err)
		}
		shift.ClosingCash = &v
	}
	if req.HandoverCash != nil {
		v, err := ToMinorUnits(*req.HandoverCash)
		if err != nil {
			return fmt.Errorf("handover cash: %w", err)
		}
		shift.HandoverCash = &v
	}
	if req.HandoverRecipientID != nil {
		shift.HandoverRecipientID = req.HandoverRecipientID
	}
	if req.OpeningNote != nil {
		shift.OpeningNote = NormalizeNote(req.OpeningNote)
	}
	if req.ClosingNote != nil {
		shift.ClosingNote = NormalizeNote(req.ClosingNote)
	}
	if req.HandoverNote != nil {
		shift.HandoverNote = NormalizeNote(req.HandoverNote)
	}
	return nil
}

// AdminCreateShift creates a shift out of band, e.g. back-dating a missed
// one for reconciliation. A created OPEN shift still consumes the hotel's
// single open slot; CLOSED shifts do not.
func (s *shiftService) AdminCreateShift(hotelID int64, req AdminShiftRequest, actorUserID int64) (*models.Shift, error) {
	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for shift creation: %w", err)
	}
	if req.ManagerID == nil {
		return nil, fmt.Errorf("%w: manager_id is required", ErrValidation)
	}
	if req.OpenedAt == nil {
		return nil, fmt.Errorf("%w: opened_at is required", ErrValidation)
	}
	if req.Status == nil {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}

	shift := &models.Shift{HotelID: hotelID}
	if err := s.applyAdminShiftFields(shift, req); err != nil {
		return nil, err
	}
	if shift.Status == models.ShiftStatusClosed && shift.ClosedAt == nil {
		return nil, fmt.Errorf("%w: closed_at is required for a closed shift", ErrValidation)
	}

	if _, err := s.shiftRepo.CreateShift(s.db, shift); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrShiftAlreadyOpen
		}
		return nil, fmt.Errorf("failed to create shift administratively: %w", err)
	}
	utils.LogAudit(actorUserID, "create_shift", "shift", shift.ID)
	return shift, nil
}

// AdminEditShift rewrites shift fields directly, regardless of state. This
// bypasses PIN checks and the normal transitions; the unique index still
// rejects an edit that would produce a second OPEN shift.
func (s *shiftService) AdminEditShift(shiftID int64, req AdminShiftRequest, actorUserID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift for override: %w", err)
	}

	if err := s.applyAdminShiftFields(shift, req); err != nil {
		return nil, err
	}

	if err := s.shiftRepo.UpdateShift(s.db, shift); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrShiftAlreadyOpen
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to update shift administratively: %w", err)
	}
	utils.LogAudit(actorUserID, "edit_shift", "shift", shift.ID)
	return shift, nil
}

// ClearClosedShifts irreversibly deletes a hotel's CLOSED shifts with their
// ledger entries and stays in one transaction. The OPEN shift, if any, is
// untouched.
func (s *shiftService) ClearClosedShifts(hotelID int64, actorUserID int64) (int64, error) {
	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrHotelNotFound
		}
		return 0, fmt.Errorf("failed to validate hotel for bulk clear: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction for bulk clear: %w", err)
	}
	defer tx.Rollback()

	// Dependents first: stays and ledger entries reference the shifts.
	if _, err := s.stayRepo.DeleteStaysForClosedShifts(tx, hotelID); err != nil {
		return 0, fmt.Errorf("failed to delete stays during bulk clear: %w", err)
	}
	if _, err := s.ledgerRepo.DeleteEntriesForClosedShifts(tx, hotelID); err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries during bulk clear: %w", err)
	}
	deleted, err := s.shiftRepo.DeleteClosedShifts(tx, hotelID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete closed shifts during bulk clear: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk clear: %w", err)
	}
	utils.LogAudit(actorUserID, "clear_closed_shifts", "hotel", hotelID)
	return deleted, nil
}
