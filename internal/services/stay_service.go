package services

import (
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"

	"hotel_desk_backend/pkg/utils"
)

// --- Custom Service Errors for Stays ---
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotAvailable = errors.New("room is not available")
	ErrStayNotFound     = errors.New("room stay not found")
	ErrStayNotActive    = errors.New("room stay is not active")
	ErrNoOpenShift      = errors.New("hotel has no open shift")
)

// --- Stay DTOs ---

// CheckInRequest checks a guest into a room during the current open shift.
// Payment is split by method; at least one of CashPaid/CardPaid must be
// positive, and both land on the shift ledger as CASH_IN entries.
type CheckInRequest struct {
	RoomID            int64   `json:"room_id" binding:"required"`
	GuestName         *string `json:"guest_name"`
	ScheduledCheckIn  string  `json:"scheduled_check_in" binding:"required"`  // RFC3339
	ScheduledCheckOut string  `json:"scheduled_check_out" binding:"required"` // RFC3339
	CashPaid          float64 `json:"cash_paid"`
	CardPaid          float64 `json:"card_paid"`
	Notes             *string `json:"notes"`
}

// AdminStayRequest is the back-office override payload for room stays.
// Nil fields are left alone.
type AdminStayRequest struct {
	GuestName         *string  `json:"guest_name"`
	Status            *string  `json:"status"`
	ScheduledCheckIn  *string  `json:"scheduled_check_in"`
	ScheduledCheckOut *string  `json:"scheduled_check_out"`
	ActualCheckIn     *string  `json:"actual_check_in"`
	ActualCheckOut    *string  `json:"actual_check_out"`
	CashPaid          *float64 `json:"cash_paid"`
	CardPaid          *float64 `json:"card_paid"`
	AmountPaid        *float64 `json:"amount_paid"`
	Notes             *string  `json:"notes"`
}

// --- StayService Interface ---
type StayService interface {
	CheckIn(req CheckInRequest) (*models.RoomStay, error)
	CheckOut(stayID int64) (*models.RoomStay, error)
	CancelStay(stayID int64) (*models.RoomStay, error)
	GetStayByID(stayID int64) (*models.RoomStay, error)
	GetStays(filters models.StayFilters) ([]models.RoomStay, int, error)

	// AdminEditStay rewrites stay fields directly; audit-logged.
	AdminEditStay(stayID int64, req AdminStayRequest, actorUserID int64) (*models.RoomStay, error)
}

// --- stayService Implementation ---
type stayService struct {
	stayRepo   repositories.StayRepository
	roomRepo   repositories.RoomRepository
	shiftRepo  repositories.ShiftRepository
	ledgerRepo repositories.LedgerRepository
	db         repositories.Database
}

// NewStayService creates a new instance of StayService.
func NewStayService(
	str repositories.StayRepository,
	rr repositories.RoomRepository,
	sr repositories.ShiftRepository,
	lr repositories.LedgerRepository,
	db repositories.Database,
) StayService {
	return &stayService{
		stayRepo:   str,
		roomRepo:   rr,
		shiftRepo:  sr,
		ledgerRepo: lr,
		db:         db,
	}
}

// derivePaymentMethod collapses the cash/card split into a single display
// method: CASH or CARD when only one side is non-zero, nil when mixed.
func derivePaymentMethod(cashPaid, cardPaid int64) *string {
	var method string
	switch {
	case cashPaid > 0 && cardPaid == 0:
		method = models.PaymentMethodCash
	case cardPaid > 0 && cashPaid == 0:
		method = models.PaymentMethodCard
	default:
		return nil
	}
	return &method
}

// buildStayLedgerEntries produces the CASH_IN ledger entries for a stay's
// payment: one per non-zero method, tagged with the room stay in the note.
// Pure over its inputs; the caller persists the result transactionally.
func buildStayLedgerEntries(shiftID int64, cashPaid, cardPaid int64, roomLabel string, recordedAt time.Time) []models.LedgerEntry {
	var entries []models.LedgerEntry
	note := fmt.Sprintf("check-in, room %s", roomLabel)
	if cashPaid > 0 {
		entries = append(entries, models.LedgerEntry{
			ShiftID:    shiftID,
			EntryType:  models.EntryTypeCashIn,
			Method:     models.PaymentMethodCash,
			Amount:     cashPaid,
			Note:       &note,
			RecordedAt: recordedAt,
		})
	}
	if cardPaid > 0 {
		entries = append(entries, models.LedgerEntry{
			ShiftID:    shiftID,
			EntryType:  models.EntryTypeCashIn,
			Method:     models.PaymentMethodCard,
			Amount:     cardPaid,
			Note:       &note,
			RecordedAt: recordedAt,
		})
	}
	return entries
}

// CheckIn moves a guest into a room and posts the payment to the open
// shift's ledger in one transaction. Room occupancy, the stay record and
// the ledger entries commit or roll back together, so money and occupancy
// can never disagree.
func (s *stayService) CheckIn(req CheckInRequest) (*models.RoomStay, error) {
	scheduledIn, err := parseDateTime(req.ScheduledCheckIn)
	if err != nil {
		return nil, fmt.Errorf("scheduled_check_in: %w", err)
	}
	scheduledOut, err := parseDateTime(req.ScheduledCheckOut)
	if err != nil {
		return nil, fmt.Errorf("scheduled_check_out: %w", err)
	}
	if !scheduledOut.After(scheduledIn) {
		return nil, fmt.Errorf("%w: scheduled check-out must be after check-in", ErrValidation)
	}
	cashPaid, err := ToMinorUnits(req.CashPaid)
	if err != nil {
		return nil, fmt.Errorf("cash paid: %w", err)
	}
	cardPaid, err := ToMinorUnits(req.CardPaid)
	if err != nil {
		return nil, fmt.Errorf("card paid: %w", err)
	}
	if cashPaid+cardPaid == 0 {
		return nil, fmt.Errorf("%w: payment is required at check-in", ErrValidation)
	}

	room, err := s.roomRepo.GetRoomByID(req.RoomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for check-in: %w", err)
	}
	if !room.IsActive || room.Status != models.RoomStatusAvailable {
		return nil, fmt.Errorf("%w: room %s is %s", ErrRoomNotAvailable, room.Label, room.Status)
	}

	shift, err := s.shiftRepo.GetOpenShiftByHotel(room.HotelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoOpenShift
		}
		return nil, fmt.Errorf("failed to fetch open shift for check-in: %w", err)
	}

	now := time.Now()
	stay := &models.RoomStay{
		RoomID:            room.ID,
		ShiftID:           shift.ID,
		GuestName:         NormalizeNote(req.GuestName),
		Status:            models.StayStatusCheckedIn,
		ScheduledCheckIn:  scheduledIn,
		ScheduledCheckOut: scheduledOut,
		ActualCheckIn:     &now,
		CashPaid:          cashPaid,
		CardPaid:          cardPaid,
		AmountPaid:        cashPaid + cardPaid,
		PaymentMethod:     derivePaymentMethod(cashPaid, cardPaid),
		Notes:             NormalizeNote(req.Notes),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction for check-in: %w", err)
	}
	defer tx.Rollback()

	// Lock the shift row before touching anything: ledger appends and the
	// close transition serialize on the same lock, so the payment entries
	// below cannot land on a shift that closes mid-flight.
	lockedShift, err := s.shiftRepo.GetShiftForUpdate(tx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock shift for check-in: %w", err)
	}
	if lockedShift.Status != models.ShiftStatusOpen {
		return nil, ErrNoOpenShift
	}

	// Guarded status flip doubles as the occupancy lock: a concurrent
	// check-in on the same room loses the race here and rolls back.
	available := models.RoomStatusAvailable
	if err := s.roomRepo.UpdateRoomStatus(tx, room.ID, models.RoomStatusOccupied, &available); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %s was just taken", ErrRoomNotAvailable, room.Label)
		}
		return nil, fmt.Errorf("failed to occupy room for check-in: %w", err)
	}
	if _, err := s.stayRepo.CreateStay(tx, stay); err != nil {
		return nil, fmt.Errorf("failed to create stay for check-in: %w", err)
	}
	entries := buildStayLedgerEntries(shift.ID, cashPaid, cardPaid, room.Label, now)
	for i := range entries {
		if _, err := s.ledgerRepo.CreateEntry(tx, &entries[i]); err != nil {
			return nil, fmt.Errorf("failed to record check-in payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}
	room.Status = models.RoomStatusOccupied
	stay.Room = room
	return stay, nil
}

// CheckOut completes a stay and marks the room DIRTY for housekeeping.
// Money already on the ledger is untouched.
func (s *stayService) CheckOut(stayID int64) (*models.RoomStay, error) {
	stay, err := s.stayRepo.GetStayByID(stayID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStayNotFound
		}
		return nil, fmt.Errorf("failed to fetch stay for check-out: %w", err)
	}
	if stay.Status != models.StayStatusCheckedIn {
		return nil, fmt.Errorf("%w: stay %d is %s", ErrStayNotActive, stayID, stay.Status)
	}

	room, err := s.roomRepo.GetRoomByID(stay.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room for check-out: %w", err)
	}
	// Check-out happens on shift time: the departure must land inside an
	// open shift so the drawer's custodian is accountable for it.
	if _, err := s.shiftRepo.GetOpenShiftByHotel(room.HotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoOpenShift
		}
		return nil, fmt.Errorf("failed to fetch open shift for check-out: %w", err)
	}

	now := time.Now()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction for check-out: %w", err)
	}
	defer tx.Rollback()

	if err := s.stayRepo.CheckOutStay(tx, stay.ID, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stay %d", ErrStayNotActive, stayID)
		}
		return nil, fmt.Errorf("failed to check out stay: %w", err)
	}
	if err := s.roomRepo.UpdateRoomStatus(tx, stay.RoomID, models.RoomStatusDirty, nil); err != nil {
		return nil, fmt.Errorf("failed to release room for check-out: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-out: %w", err)
	}
	stay.Status = models.StayStatusCheckedOut
	stay.ActualCheckOut = &now
	return stay, nil
}

// CancelStay voids a non-terminal stay and frees the room. Ledger entries
// already posted stay put; a refund is recorded separately as CASH_OUT.
func (s *stayService) CancelStay(stayID int64) (*models.RoomStay, error) {
	stay, err := s.stayRepo.GetStayByID(stayID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStayNotFound
		}
		return nil, fmt.Errorf("failed to fetch stay for cancel: %w", err)
	}
	if models.IsTerminalStayStatus(stay.Status) {
		return nil, fmt.Errorf("%w: stay %d is %s", ErrStayNotActive, stayID, stay.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction for stay cancel: %w", err)
	}
	defer tx.Rollback()

	if err := s.stayRepo.CancelStay(tx, stay.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stay %d", ErrStayNotActive, stayID)
		}
		return nil, fmt.Errorf("failed to cancel stay: %w", err)
	}
	if stay.Status == models.StayStatusCheckedIn {
		if err := s.roomRepo.UpdateRoomStatus(tx, stay.RoomID, models.RoomStatusAvailable, nil); err != nil {
			return nil, fmt.Errorf("failed to free room for stay cancel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stay cancel: %w", err)
	}
	stay.Status = models.StayStatusCancelled
	return stay, nil
}

func (s *stayService) GetStayByID(stayID int64) (*models.RoomStay, error) {
	stay, err := s.stayRepo.GetStayByID(stayID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStayNotFound
		}
		return nil, fmt.Errorf("failed to get stay by ID: %w", err)
	}
	return stay, nil
}

func (s *stayService) GetStays(filters models.StayFilters) ([]models.RoomStay, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	stays, totalCount, err := s.stayRepo.GetStays(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stays: %w", err)
	}
	return stays, totalCount, nil
}

// AdminEditStay rewrites stay fields directly, bypassing the state machine.
// The payment split and total may legitimately diverge here (partial refunds
// handled outside the ledger); the divergence is logged, not rejected.
func (s *stayService) AdminEditStay(stayID int64, req AdminStayRequest, actorUserID int64) (*models.RoomStay, error) {
	stay, err := s.stayRepo.GetStayByID(stayID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStayNotFound
		}
		return nil, fmt.Errorf("failed to fetch stay for override: %w", err)
	}

	if req.GuestName != nil {
		stay.GuestName = NormalizeNote(req.GuestName)
	}
	if req.Status != nil {
		if !models.IsValidStayStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown stay status '%s'", ErrValidation, *req.Status)
		}
		stay.Status = *req.Status
	}
	if req.ScheduledCheckIn != nil {
		t, err := parseDateTime(*req.ScheduledCheckIn)
		if err != nil {
			return nil, fmt.Errorf("scheduled_check_in: %w", err)
		}
		stay.ScheduledCheckIn = t
	}
	if req.ScheduledCheckOut != nil {
		t, err := parseDateTime(*req.ScheduledCheckOut)
		if err != nil {
			return nil, fmt.Errorf("scheduled_check_out: %w", err)
		}
		stay.ScheduledCheckOut = t
	}
	if req.ActualCheckIn != nil {
		t, err := parseDateTime(*req.ActualCheckIn)
		if err != nil {
			return nil, fmt.Errorf("actual_check_in: %w", err)
		}
		stay.ActualCheckIn = &t
	}
	if req.ActualCheckOut != nil {
		t, err := parseDateTime(*req.ActualCheckOut)
		if err != nil {
			return nil, fmt.Errorf("actual_check_out: %w", err)
		}
		stay.ActualCheckOut = &t
	}
	if req.CashPaid != nil {
		v, err := ToMinorUnits(*req.CashPaid)
		if err != nil {
			return nil, fmt.Errorf("cash paid: %w", err)
		}
		stay.CashPaid = v
	}
	if req.CardPaid != nil {
		v, err := ToMinorUnits(*req.CardPaid)
		if err != nil {
			return nil, fmt.Errorf("card paid: %w", err)
		}
		stay.CardPaid = v
	}
	if req.AmountPaid != nil {
		v, err := ToMinorUnits(*req.AmountPaid)
		if err != nil {
			return nil, fmt.Errorf("amount paid: %w", err)
		}
		stay.AmountPaid = v
	} else if req.CashPaid != nil || req.CardPaid != nil {
		stay.AmountPaid = stay.CashPaid + stay.CardPaid
	}
	if req.Notes != nil {
		stay.Notes = NormalizeNote(req.Notes)
	}
	stay.PaymentMethod = derivePaymentMethod(stay.CashPaid, stay.CardPaid)

	if stay.CashPaid+stay.CardPaid != stay.AmountPaid {
		utils.LogWarn(fmt.Sprintf(
			"stay %d amended with diverging payment split: cash %d + card %d != total %d",
			stay.ID, stay.CashPaid, stay.CardPaid, stay.AmountPaid,
		))
	}

	if err := s.stayRepo.UpdateStay(s.db, stay); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStayNotFound
		}
		return nil, fmt.Errorf("failed to update stay administratively: %w", err)
	}
	utils.LogAudit(actorUserID, "edit_stay", "room_stay", stay.ID)
	return stay, nil
}
