package models

import "time"

// Room status values.
const (
	RoomStatusAvailable = "AVAILABLE"
	RoomStatusOccupied  = "OCCUPIED"
	RoomStatusDirty     = "DIRTY"
	RoomStatusHold      = "HOLD"
)

// IsValidRoomStatus reports whether status is a known room status.
func IsValidRoomStatus(status string) bool {
	switch status {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusDirty, RoomStatusHold:
		return true
	default:
		return false
	}
}

// Room is a sellable unit in a hotel. A room has at most one non-terminal
// stay (SCHEDULED or CHECKED_IN) at a time.
type Room struct {
	ID        int64     `json:"id" db:"id"`
	HotelID   int64     `json:"hotel_id" db:"hotel_id"`
	Label     string    `json:"label" db:"label"`
	Floor     *int      `json:"floor,omitempty" db:"floor"`
	Status    string    `json:"status" db:"status"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
