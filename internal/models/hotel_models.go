package models

import "time"

// Hotel is the top-level tenant. Every room, manager assignment and shift
// belongs to exactly one hotel.
type Hotel struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Timezone     string    `json:"timezone" db:"timezone"`
	CurrencyCode string    `json:"currency_code" db:"currency_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ManagerAssignment is one manager's compensation contract at one hotel.
// The PIN authenticates the manager for shift open/close. Assignments are
// soft-removed (is_active = false) so historical shifts keep their reference.
// All amounts are in minor currency units.
type ManagerAssignment struct {
	ID              int64     `json:"id" db:"id"`
	HotelID         int64     `json:"hotel_id" db:"hotel_id"`
	ManagerName     string    `json:"manager_name" db:"manager_name"`
	PinCode         string    `json:"-" db:"pin_code"`
	ShiftPayAmount  *int64    `json:"shift_pay_amount,omitempty" db:"shift_pay_amount"`
	RevenueSharePct *int64    `json:"revenue_share_pct,omitempty" db:"revenue_share_pct"`
	BonusThreshold  *int64    `json:"bonus_threshold,omitempty" db:"bonus_threshold"`
	BonusAmount     *int64    `json:"bonus_amount,omitempty" db:"bonus_amount"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
