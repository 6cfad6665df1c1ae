package services

import (
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// --- Custom Service Errors for Ledger ---
var (
	ErrShiftNotFound = errors.New("shift not found")
	ErrShiftNotOpen  = errors.New("shift is not open")
)

// AggregateEntries reduces a shift's ledger entries into per-type buckets
// with a cash/card breakdown. It is a pure function: order-independent,
// side-effect free, and zero-valued for empty input. Every entry routes into
// exactly one bucket according to its type.
func AggregateEntries(entries []models.LedgerEntry) models.LedgerTotals {
	var totals models.LedgerTotals
	for _, e := range entries {
		var bucket *models.MethodBreakdown
		switch e.EntryType {
		case models.EntryTypeCashIn:
			bucket = &totals.CashIn
		case models.EntryTypeCashOut:
			bucket = &totals.CashOut
		case models.EntryTypeManagerPayout:
			bucket = &totals.Payouts
		case models.EntryTypeAdjustment:
			bucket = &totals.Adjustments
		default:
			// Unknown types cannot be persisted (CHECK constraint); skip
			// rather than poison the whole reduction.
			continue
		}
		switch e.Method {
		case models.PaymentMethodCash:
			bucket.Cash += e.Amount
		case models.PaymentMethodCard:
			bucket.Card += e.Amount
		}
		bucket.Total = bucket.Cash + bucket.Card
	}
	return totals
}

// BalanceFor derives the current balance from opening cash and aggregated
// totals. Opening cash contributes to the CASH side only:
//
//	cash = opening + in − out − payouts + adjustments (CASH slices)
//	card =           in − out − payouts + adjustments (CARD slices)
//
// This is the single source of truth for "cash in drawer" displays.
func BalanceFor(openingCash int64, totals models.LedgerTotals) models.ShiftBalance {
	cash := openingCash + totals.CashIn.Cash - totals.CashOut.Cash - totals.Payouts.Cash + totals.Adjustments.Cash
	card := totals.CashIn.Card - totals.CashOut.Card - totals.Payouts.Card + totals.Adjustments.Card
	return models.ShiftBalance{
		Cash:  cash,
		Card:  card,
		Total: cash + card,
	}
}

// --- Ledger DTOs ---

// RecordEntryRequest records one cash/card movement on an open shift.
// Amount is a user-facing decimal; it is normalized to minor units here.
type RecordEntryRequest struct {
	EntryType string  `json:"entry_type" binding:"required"`
	Method    string  `json:"method" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Note      *string `json:"note"`
}

// --- LedgerService Interface ---
type LedgerService interface {
	RecordEntry(shiftID int64, req RecordEntryRequest, recordedBy *int64) (*models.LedgerEntry, error)
	GetEntriesForShift(shiftID int64) ([]models.LedgerEntry, error)
}

// --- ledgerService Implementation ---
type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
	shiftRepo  repositories.ShiftRepository
	db         repositories.Database
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(lr repositories.LedgerRepository, sr repositories.ShiftRepository, db repositories.Database) LedgerService {
	return &ledgerService{
		ledgerRepo: lr,
		shiftRepo:  sr,
		db:         db,
	}
}

// RecordEntry appends a ledger entry to an open shift. Entries are
// append-only; corrections are recorded as ADJUSTMENT entries, never by
// mutating what is already written. The shift row is locked for the span of
// the insert, so an append can never interleave with the close transition:
// either the entry commits before the close reads the ledger, or the append
// waits for the lock and then sees the shift CLOSED.
func (s *ledgerService) RecordEntry(shiftID int64, req RecordEntryRequest, recordedBy *int64) (*models.LedgerEntry, error) {
	if !models.IsValidEntryType(req.EntryType) {
		return nil, fmt.Errorf("%w: unknown entry type '%s'", ErrValidation, req.EntryType)
	}
	if !models.IsValidPaymentMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown payment method '%s'", ErrValidation, req.Method)
	}
	amount, err := ToMinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction for ledger entry: %w", err)
	}
	defer tx.Rollback()

	shift, err := s.shiftRepo.GetShiftForUpdate(tx, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift for ledger entry: %w", err)
	}
	if shift.Status != models.ShiftStatusOpen {
		return nil, fmt.Errorf("%w: shift %d is closed", ErrShiftNotOpen, shiftID)
	}

	entry := &models.LedgerEntry{
		ShiftID:    shift.ID,
		EntryType:  req.EntryType,
		Method:     req.Method,
		Amount:     amount,
		Note:       NormalizeNote(req.Note),
		RecordedAt: time.Now(),
		RecordedBy: recordedBy,
	}
	if _, err := s.ledgerRepo.CreateEntry(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}
	return entry, nil
}

func (s *ledgerService) GetEntriesForShift(shiftID int64) ([]models.LedgerEntry, error) {
	if _, err := s.shiftRepo.GetShiftByID(shiftID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift for ledger listing: %w", err)
	}
	entries, err := s.ledgerRepo.GetEntriesByShift(shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	return entries, nil
}
