package models

import "time"

// Ledger entry types. Amounts are always positive; the sign is derived from
// the type at aggregation time, never stored.
const (
	EntryTypeCashIn        = "CASH_IN"
	EntryTypeCashOut       = "CASH_OUT"
	EntryTypeManagerPayout = "MANAGER_PAYOUT"
	EntryTypeAdjustment    = "ADJUSTMENT"
)

// Payment methods.
const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
)

// IsValidEntryType reports whether entryType is a known ledger entry type.
func IsValidEntryType(entryType string) bool {
	switch entryType {
	case EntryTypeCashIn, EntryTypeCashOut, EntryTypeManagerPayout, EntryTypeAdjustment:
		return true
	default:
		return false
	}
}

// IsValidPaymentMethod reports whether method is a known payment method.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// LedgerEntry is a single recorded cash/card movement on a shift.
// Entries are append-only: once persisted they are never mutated or deleted
// individually, only removed wholesale by the closed-history bulk clear.
// Amount is in minor currency units and always non-negative.
type LedgerEntry struct {
	ID         int64     `json:"id" db:"id"`
	ShiftID    int64     `json:"shift_id" db:"shift_id"`
	EntryType  string    `json:"entry_type" db:"entry_type"`
	Method     string    `json:"method" db:"method"`
	Amount     int64     `json:"amount" db:"amount"`
	Note       *string   `json:"note,omitempty" db:"note"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
	RecordedBy *int64    `json:"recorded_by,omitempty" db:"recorded_by"`
}
