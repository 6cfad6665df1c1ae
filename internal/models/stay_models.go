package models

import "time"

// Stay status values. SCHEDULED and CHECKED_IN are non-terminal.
const (
	StayStatusScheduled  = "SCHEDULED"
	StayStatusCheckedIn  = "CHECKED_IN"
	StayStatusCheckedOut = "CHECKED_OUT"
	StayStatusCancelled  = "CANCELLED"
)

// IsValidStayStatus reports whether status is a known stay status.
func IsValidStayStatus(status string) bool {
	switch status {
	case StayStatusScheduled, StayStatusCheckedIn, StayStatusCheckedOut, StayStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminalStayStatus reports whether status ends a stay's lifecycle.
func IsTerminalStayStatus(status string) bool {
	return status == StayStatusCheckedOut || status == StayStatusCancelled
}

// RoomStay is a guest's scheduled or actual occupancy of a room, with its
// payment split. ShiftID references the shift during which check-in occurred.
// CashPaid/CardPaid/AmountPaid are minor currency units. PaymentMethod is a
// legacy single-method label kept for amended historical records.
type RoomStay struct {
	ID                int64      `json:"id" db:"id"`
	RoomID            int64      `json:"room_id" db:"room_id"`
	ShiftID           int64      `json:"shift_id" db:"shift_id"`
	GuestName         *string    `json:"guest_name,omitempty" db:"guest_name"`
	Status            string     `json:"status" db:"status"`
	ScheduledCheckIn  time.Time  `json:"scheduled_check_in" db:"scheduled_check_in"`
	ScheduledCheckOut time.Time  `json:"scheduled_check_out" db:"scheduled_check_out"`
	ActualCheckIn     *time.Time `json:"actual_check_in,omitempty" db:"actual_check_in"`
	ActualCheckOut    *time.Time `json:"actual_check_out,omitempty" db:"actual_check_out"`
	CashPaid          int64      `json:"cash_paid" db:"cash_paid"`
	CardPaid          int64      `json:"card_paid" db:"card_paid"`
	AmountPaid        int64      `json:"amount_paid" db:"amount_paid"`
	PaymentMethod     *string    `json:"payment_method,omitempty" db:"payment_method"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	Room *Room `json:"room,omitempty"`
}

// StayFilters narrows stay listings.
type StayFilters struct {
	RoomID   *int64
	ShiftID  *int64
	Status   *string
	Page     int
	PageSize int
}
