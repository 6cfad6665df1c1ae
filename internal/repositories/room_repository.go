package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
)

// RoomRepository defines the interface for room-related database operations.
type RoomRepository interface {
	CreateRoom(executor SQLExecutor, room *models.Room) (int64, error)
	GetRoomByID(roomID int64) (*models.Room, error)
	GetRoomsByHotel(hotelID int64, includeInactive bool) ([]models.Room, error)
	UpdateRoom(executor SQLExecutor, room *models.Room) error
	// UpdateRoomStatus transitions a room's status. When expectedStatus is
	// non-nil the update is guarded (WHERE status = expected) and returns
	// ErrNotFound if the room was concurrently moved out of that status.
	UpdateRoomStatus(executor SQLExecutor, roomID int64, newStatus string, expectedStatus *string) error
}

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, hotel_id, label, floor, status, is_active, created_at, updated_at`

func scanRoomRow(s scanner, room *models.Room) error {
	return s.Scan(
		&room.ID, &room.HotelID, &room.Label, &room.Floor, &room.Status,
		&room.IsActive, &room.CreatedAt, &room.UpdatedAt,
	)
}

func (r *roomRepository) CreateRoom(executor SQLExecutor, room *models.Room) (int64, error) {
	query := `INSERT INTO rooms (hotel_id, label, floor, status, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	err := executor.QueryRow(query,
		room.HotelID, room.Label, room.Floor, room.Status, room.IsActive,
		room.CreatedAt, room.UpdatedAt,
	).Scan(&room.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: room label already exists at this hotel", ErrDuplicateKey)
		}
		return 0, fmt.Errorf("%w: creating room: %v", ErrDatabaseError, err)
	}
	return room.ID, nil
}

func (r *roomRepository) GetRoomByID(roomID int64) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	err := scanRoomRow(r.db.QueryRow(query, roomID), room)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room by ID %d: %v", ErrDatabaseError, roomID, err)
	}
	return room, nil
}

func (r *roomRepository) GetRoomsByHotel(hotelID int64, includeInactive bool) ([]models.Room, error) {
	rooms := []models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY label`

	rows, err := r.db.Query(query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying rooms for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var room models.Room
		if err := scanRoomRow(rows, &room); err != nil {
			return nil, fmt.Errorf("%w: scanning room: %v", ErrDatabaseError, err)
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room rows: %v", ErrDatabaseError, err)
	}
	return rooms, nil
}

func (r *roomRepository) UpdateRoom(executor SQLExecutor, room *models.Room) error {
	query := `UPDATE rooms
	          SET label = $1, floor = $2, status = $3, is_active = $4, updated_at = $5
	          WHERE id = $6`
	room.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		room.Label, room.Floor, room.Status, room.IsActive, room.UpdatedAt,
		room.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: room label already exists at this hotel", ErrDuplicateKey)
		}
		return fmt.Errorf("%w: updating room ID %d: %v", ErrDatabaseError, room.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for room update ID %d: %v", ErrDatabaseError, room.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) UpdateRoomStatus(executor SQLExecutor, roomID int64, newStatus string, expectedStatus *string) error {
	var (
		result sql.Result
		err    error
	)
	if expectedStatus != nil {
		query := `UPDATE rooms SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
		result, err = executor.Exec(query, newStatus, time.Now(), roomID, *expectedStatus)
	} else {
		query := `UPDATE rooms SET status = $1, updated_at = $2 WHERE id = $3`
		result, err = executor.Exec(query, newStatus, time.Now(), roomID)
	}
	if err != nil {
		return fmt.Errorf("%w: updating room status for ID %d: %v", ErrDatabaseError, roomID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for room status update ID %d: %v", ErrDatabaseError, roomID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
