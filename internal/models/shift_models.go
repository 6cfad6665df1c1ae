package models

import "time"

// Shift status values. A hotel has at most one OPEN shift at any time,
// enforced by a partial unique index on shifts(hotel_id) WHERE status = 'OPEN'.
const (
	ShiftStatusOpen   = "OPEN"
	ShiftStatusClosed = "CLOSED"
)

// IsValidShiftStatus reports whether status is a known shift status.
func IsValidShiftStatus(status string) bool {
	switch status {
	case ShiftStatusOpen, ShiftStatusClosed:
		return true
	default:
		return false
	}
}

// Shift is one manager's continuous period of cash-register responsibility.
// Number is monotonically increasing per hotel and assigned at creation.
// ClosingCash is the persisted drawer amount at close (either the computed
// balance or an explicit manager override); ComputedClosingCash always holds
// the aggregator's value at the moment of closing so variance stays auditable.
// All monetary fields are in minor currency units.
type Shift struct {
	ID                  int64      `json:"id" db:"id"`
	HotelID             int64      `json:"hotel_id" db:"hotel_id"`
	ManagerID           int64      `json:"manager_id" db:"manager_id"`
	Number              int64      `json:"number" db:"number"`
	Status              string     `json:"status" db:"status"`
	OpenedAt            time.Time  `json:"opened_at" db:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	OpeningCash         int64      `json:"opening_cash" db:"opening_cash"`
	ClosingCash         *int64     `json:"closing_cash,omitempty" db:"closing_cash"`
	ComputedClosingCash *int64     `json:"computed_closing_cash,omitempty" db:"computed_closing_cash"`
	HandoverCash        *int64     `json:"handover_cash,omitempty" db:"handover_cash"`
	HandoverRecipientID *int64     `json:"handover_recipient_id,omitempty" db:"handover_recipient_id"`
	OpeningNote         *string    `json:"opening_note,omitempty" db:"opening_note"`
	ClosingNote         *string    `json:"closing_note,omitempty" db:"closing_note"`
	HandoverNote        *string    `json:"handover_note,omitempty" db:"handover_note"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`

	Manager *ManagerAssignment `json:"manager,omitempty"`
}

// ShiftFilters narrows shift listings.
type ShiftFilters struct {
	HotelID    *int64
	ManagerID  *int64
	Status     *string
	OpenedFrom *time.Time
	OpenedTo   *time.Time
	Page       int
	PageSize   int
}
