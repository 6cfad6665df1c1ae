package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_desk_backend/internal/models"
)

// StayRepository defines the interface for room-stay database operations.
type StayRepository interface {
	CreateStay(executor SQLExecutor, stay *models.RoomStay) (int64, error)
	GetStayByID(stayID int64) (*models.RoomStay, error)
	// GetActiveStayByRoom returns the room's single non-terminal stay
	// (SCHEDULED or CHECKED_IN), or ErrNotFound if the room is free.
	GetActiveStayByRoom(roomID int64) (*models.RoomStay, error)
	GetStays(filters models.StayFilters) ([]models.RoomStay, int, error)
	// CheckOutStay marks a CHECKED_IN stay CHECKED_OUT. The status guard
	// means a double check-out affects zero rows and returns ErrNotFound.
	CheckOutStay(executor SQLExecutor, stayID int64, checkedOutAt time.Time) error
	// CancelStay marks a non-terminal stay CANCELLED.
	CancelStay(executor SQLExecutor, stayID int64) error
	// UpdateStay rewrites every mutable field; administrative amendments only.
	UpdateStay(executor SQLExecutor, stay *models.RoomStay) error
	// DeleteStaysForClosedShifts removes stays recorded on a hotel's CLOSED
	// shifts; part of the bulk history clear, same transaction as the shift
	// delete.
	DeleteStaysForClosedShifts(executor SQLExecutor, hotelID int64) (int64, error)
}

type stayRepository struct {
	db *sql.DB
}

// NewStayRepository creates a new instance of StayRepository.
func NewStayRepository(db *sql.DB) StayRepository {
	return &stayRepository{db: db}
}

const stayColumns = `id, room_id, shift_id, guest_name, status,
	scheduled_check_in, scheduled_check_out, actual_check_in, actual_check_out,
	cash_paid, card_paid, amount_paid, payment_method, notes, created_at, updated_at`

func scanStayRow(s scanner, stay *models.RoomStay) error {
	return s.Scan(
		&stay.ID, &stay.RoomID, &stay.ShiftID, &stay.GuestName, &stay.Status,
		&stay.ScheduledCheckIn, &stay.ScheduledCheckOut, &stay.ActualCheckIn, &stay.ActualCheckOut,
		&stay.CashPaid, &stay.CardPaid, &stay.AmountPaid, &stay.PaymentMethod, &stay.Notes,
		&stay.CreatedAt, &stay.UpdatedAt,
	)
}

func (r *stayRepository) CreateStay(executor SQLExecutor, stay *models.RoomStay) (int64, error) {
	query := `INSERT INTO room_stays
	            (room_id, shift_id, guest_name, status, scheduled_check_in, scheduled_check_out,
	             actual_check_in, actual_check_out, cash_paid, card_paid, amount_paid,
	             payment_method, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`

	now := time.Now()
	stay.CreatedAt = now
	stay.UpdatedAt = now

	err := executor.QueryRow(query,
		stay.RoomID, stay.ShiftID, stay.GuestName, stay.Status,
		stay.ScheduledCheckIn, stay.ScheduledCheckOut, stay.ActualCheckIn, stay.ActualCheckOut,
		stay.CashPaid, stay.CardPaid, stay.AmountPaid, stay.PaymentMethod, stay.Notes,
		stay.CreatedAt, stay.UpdatedAt,
	).Scan(&stay.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating room stay: %v", ErrDatabaseError, err)
	}
	return stay.ID, nil
}

func (r *stayRepository) GetStayByID(stayID int64) (*models.RoomStay, error) {
	stay := &models.RoomStay{}
	query := `SELECT ` + stayColumns + ` FROM room_stays WHERE id = $1`
	err := scanStayRow(r.db.QueryRow(query, stayID), stay)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room stay by ID %d: %v", ErrDatabaseError, stayID, err)
	}
	return stay, nil
}

func (r *stayRepository) GetActiveStayByRoom(roomID int64) (*models.RoomStay, error) {
	stay := &models.RoomStay{}
	query := `SELECT ` + stayColumns + `
	          FROM room_stays
	          WHERE room_id = $1 AND status IN ($2, $3)
	          ORDER BY scheduled_check_in
	          LIMIT 1`
	err := scanStayRow(r.db.QueryRow(query, roomID, models.StayStatusScheduled, models.StayStatusCheckedIn), stay)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting active stay for room %d: %v", ErrDatabaseError, roomID, err)
	}
	return stay, nil
}

func (r *stayRepository) GetStays(filters models.StayFilters) ([]models.RoomStay, int, error) {
	stays := []models.RoomStay{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            rs.id, rs.room_id, rs.shift_id, rs.guest_name, rs.status,
            rs.scheduled_check_in, rs.scheduled_check_out, rs.actual_check_in, rs.actual_check_out,
            rs.cash_paid, rs.card_paid, rs.amount_paid, rs.payment_method, rs.notes,
            rs.created_at, rs.updated_at,
            rm.label as room_label,
            COUNT(*) OVER() as total_count
        FROM room_stays rs
        LEFT JOIN rooms rm ON rs.room_id = rm.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.RoomID != nil {
		conditions = append(conditions, fmt.Sprintf("rs.room_id = $%d", argCounter))
		args = append(args, *filters.RoomID)
		argCounter++
	}
	if filters.ShiftID != nil {
		conditions = append(conditions, fmt.Sprintf("rs.shift_id = $%d", argCounter))
		args = append(args, *filters.ShiftID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("rs.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY rs.scheduled_check_in DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying room stays: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stay models.RoomStay
		var roomLabel sql.NullString

		err := rows.Scan(
			&stay.ID, &stay.RoomID, &stay.ShiftID, &stay.GuestName, &stay.Status,
			&stay.ScheduledCheckIn, &stay.ScheduledCheckOut, &stay.ActualCheckIn, &stay.ActualCheckOut,
			&stay.CashPaid, &stay.CardPaid, &stay.AmountPaid, &stay.PaymentMethod, &stay.Notes,
			&stay.CreatedAt, &stay.UpdatedAt,
			&roomLabel,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning room stay: %v", ErrDatabaseError, err)
		}
		if roomLabel.Valid {
			stay.Room = &models.Room{ID: stay.RoomID, Label: roomLabel.String}
		}
		stays = append(stays, stay)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating room stay rows: %v", ErrDatabaseError, err)
	}
	return stays, totalCount, nil
}

func (r *stayRepository) CheckOutStay(executor SQLExecutor, stayID int64, checkedOutAt time.Time) error {
	query := `UPDATE room_stays
	          SET status = $1, actual_check_out = $2, updated_at = $3
	          WHERE id = $4 AND status = $5`
	result, err := executor.Exec(query,
		models.StayStatusCheckedOut, checkedOutAt, time.Now(),
		stayID, models.StayStatusCheckedIn,
	)
	if err != nil {
		return fmt.Errorf("%w: checking out stay ID %d: %v", ErrDatabaseError, stayID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for stay check-out ID %d: %v", ErrDatabaseError, stayID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stayRepository) CancelStay(executor SQLExecutor, stayID int64) error {
	query := `UPDATE room_stays
	          SET status = $1, updated_at = $2
	          WHERE id = $3 AND status IN ($4, $5)`
	result, err := executor.Exec(query,
		models.StayStatusCancelled, time.Now(),
		stayID, models.StayStatusScheduled, models.StayStatusCheckedIn,
	)
	if err != nil {
		return fmt.Errorf("%w: cancelling stay ID %d: %v", ErrDatabaseError, stayID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for stay cancel ID %d: %v", ErrDatabaseError, stayID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stayRepository) UpdateStay(executor SQLExecutor, stay *models.RoomStay) error {
	query := `UPDATE room_stays
	          SET guest_name = $1, status = $2, scheduled_check_in = $3, scheduled_check_out = $4,
	              actual_check_in = $5, actual_check_out = $6, cash_paid = $7, card_paid = $8,
	              amount_paid = $9, payment_method = $10, notes = $11, updated_at = $12
	          WHERE id = $13`
	stay.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		stay.GuestName, stay.Status, stay.ScheduledCheckIn, stay.ScheduledCheckOut,
		stay.ActualCheckIn, stay.ActualCheckOut, stay.CashPaid, stay.CardPaid,
		stay.AmountPaid, stay.PaymentMethod, stay.Notes, stay.UpdatedAt,
		stay.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating stay ID %d: %v", ErrDatabaseError, stay.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for stay update ID %d: %v", ErrDatabaseError, stay.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stayRepository) DeleteStaysForClosedShifts(executor SQLExecutor, hotelID int64) (int64, error) {
	query := `DELETE FROM room_stays
	          WHERE shift_id IN (SELECT id FROM shifts WHERE hotel_id = $1 AND status = $2)`
	result, err := executor.Exec(query, hotelID, models.ShiftStatusClosed)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting stays for closed shifts of hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting stays of hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	return rowsAffected, nil
}
