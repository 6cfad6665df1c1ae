package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_desk_backend/internal/models"
)

// ShiftRepository defines the interface for shift-related database operations.
//
// Open-shift uniqueness is a serialization point: the partial unique index on
// shifts(hotel_id) WHERE status = 'OPEN' makes the open transition a single
// authoritative check-and-insert. Concurrent opens for the same hotel resolve
// to exactly one success; the loser gets ErrDuplicateKey.
type ShiftRepository interface {
	CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error)
	GetShiftByID(shiftID int64) (*models.Shift, error)
	// GetShiftForUpdate reads a shift with a row lock (SELECT ... FOR
	// UPDATE); it must run inside a transaction. Ledger appends and the
	// close transition both lock the shift row first, so an entry can
	// never land on a shift that is concurrently being closed.
	GetShiftForUpdate(executor SQLExecutor, shiftID int64) (*models.Shift, error)
	GetOpenShiftByHotel(hotelID int64) (*models.Shift, error)
	GetShifts(filters models.ShiftFilters) ([]models.Shift, int, error)
	GetShiftsByManager(managerID int64) ([]models.Shift, error)
	CloseShift(executor SQLExecutor, shift *models.Shift) error
	UpdateShift(executor SQLExecutor, shift *models.Shift) error
	DeleteClosedShifts(executor SQLExecutor, hotelID int64) (int64, error)
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, hotel_id, manager_id, number, status, opened_at, closed_at,
	opening_cash, closing_cash, computed_closing_cash, handover_cash,
	handover_recipient_id, opening_note, closing_note, handover_note,
	created_at, updated_at`

// Unique constraints on the shifts table, told apart by name on 23505.
const (
	openShiftConstraint   = "shifts_one_open_per_hotel_uq"
	shiftNumberConstraint = "shifts_hotel_number_uq"
)

func scanShiftRow(s scanner, sh *models.Shift) error {
	return s.Scan(
		&sh.ID, &sh.HotelID, &sh.ManagerID, &sh.Number, &sh.Status, &sh.OpenedAt, &sh.ClosedAt,
		&sh.OpeningCash, &sh.ClosingCash, &sh.ComputedClosingCash, &sh.HandoverCash,
		&sh.HandoverRecipientID, &sh.OpeningNote, &sh.ClosingNote, &sh.HandoverNote,
		&sh.CreatedAt, &sh.UpdatedAt,
	)
}

// CreateShift inserts a shift, assigning the next per-hotel number in the
// same statement. Used both for the normal open transition (status OPEN) and
// for administrative back-dated creation (status may be CLOSED).
func (r *shiftRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error) {
	query := `INSERT INTO shifts
	            (hotel_id, manager_id, number, status, opened_at, closed_at,
	             opening_cash, closing_cash, computed_closing_cash, handover_cash,
	             handover_recipient_id, opening_note, closing_note, handover_note,
	             created_at, updated_at)
	          VALUES ($1, $2,
	                  (SELECT COALESCE(MAX(number), 0) + 1 FROM shifts WHERE hotel_id = $1),
	                  $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id, number`

	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	err := executor.QueryRow(query,
		shift.HotelID, shift.ManagerID, shift.Status, shift.OpenedAt, shift.ClosedAt,
		shift.OpeningCash, shift.ClosingCash, shift.ComputedClosingCash, shift.HandoverCash,
		shift.HandoverRecipientID, shift.OpeningNote, shift.ClosingNote, shift.HandoverNote,
		shift.CreatedAt, shift.UpdatedAt,
	).Scan(&shift.ID, &shift.Number)
	if err != nil {
		return 0, translateShiftInsertError(err, shift.HotelID)
	}
	return shift.ID, nil
}

// translateShiftInsertError maps a shift INSERT failure onto the sentinel
// taxonomy by constraint name. Only the one-open-per-hotel index means the
// caller raced another open; a collision on the per-hotel number (two
// concurrent MAX(number)+1 inserts) is a retryable database error, not a
// state conflict.
func translateShiftInsertError(err error, hotelID int64) error {
	switch UniqueConstraint(err) {
	case openShiftConstraint:
		return fmt.Errorf("%w: hotel already has an open shift", ErrDuplicateKey)
	case shiftNumberConstraint:
		return fmt.Errorf("%w: concurrent shift numbering for hotel %d, retry: %v", ErrDatabaseError, hotelID, err)
	}
	return fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
}

func (r *shiftRepository) GetShiftForUpdate(executor SQLExecutor, shiftID int64) (*models.Shift, error) {
	sh := &models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`
	err := scanShiftRow(executor.QueryRow(query, shiftID), sh)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking shift ID %d: %v", ErrDatabaseError, shiftID, err)
	}
	return sh, nil
}

func (r *shiftRepository) GetShiftByID(shiftID int64) (*models.Shift, error) {
	sh := &models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	err := scanShiftRow(r.db.QueryRow(query, shiftID), sh)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shift by ID %d: %v", ErrDatabaseError, shiftID, err)
	}
	return sh, nil
}

func (r *shiftRepository) GetOpenShiftByHotel(hotelID int64) (*models.Shift, error) {
	sh := &models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE hotel_id = $1 AND status = $2`
	err := scanShiftRow(r.db.QueryRow(query, hotelID, models.ShiftStatusOpen), sh)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting open shift for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	return sh, nil
}

func (r *shiftRepository) GetShifts(filters models.ShiftFilters) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            s.id, s.hotel_id, s.manager_id, s.number, s.status, s.opened_at, s.closed_at,
            s.opening_cash, s.closing_cash, s.computed_closing_cash, s.handover_cash,
            s.handover_recipient_id, s.opening_note, s.closing_note, s.handover_note,
            s.created_at, s.updated_at,
            ma.manager_name,
            COUNT(*) OVER() as total_count
        FROM shifts s
        LEFT JOIN manager_assignments ma ON s.manager_id = ma.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.HotelID != nil {
		conditions = append(conditions, fmt.Sprintf("s.hotel_id = $%d", argCounter))
		args = append(args, *filters.HotelID)
		argCounter++
	}
	if filters.ManagerID != nil {
		conditions = append(conditions, fmt.Sprintf("s.manager_id = $%d", argCounter))
		args = append(args, *filters.ManagerID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.OpenedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("s.opened_at >= $%d", argCounter))
		args = append(args, *filters.OpenedFrom)
		argCounter++
	}
	if filters.OpenedTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.opened_at <= $%d", argCounter))
		args = append(args, *filters.OpenedTo)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY s.opened_at DESC")

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
		return nil, 0, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sh models.Shift
		var managerName sql.NullString

		err := rows.Scan(
			&sh.ID, &sh.HotelID, &sh.ManagerID, &sh.Number, &sh.Status, &sh.OpenedAt, &sh.ClosedAt,
			&sh.OpeningCash, &sh.ClosingCash, &sh.ComputedClosingCash, &sh.HandoverCash,
			&sh.HandoverRecipientID, &sh.OpeningNote, &sh.ClosingNote, &sh.HandoverNote,
			&sh.CreatedAt, &sh.UpdatedAt,
			&managerName,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		if managerName.Valid {
			sh.Manager = &models.ManagerAssignment{ID: sh.ManagerID, HotelID: sh.HotelID, ManagerName: managerName.String}
		}
		shifts = append(shifts, sh)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

func (r *shiftRepository) GetShiftsByManager(managerID int64) ([]models.Shift, error) {
	shifts := []models.Shift{}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE manager_id = $1 ORDER BY opened_at`
	rows, err := r.db.Query(query, managerID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shifts for manager %d: %v", ErrDatabaseError, managerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sh models.Shift
		if err := scanShiftRow(rows, &sh); err != nil {
			return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		shifts = append(shifts, sh)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

// CloseShift performs the handover transition. The WHERE status = 'OPEN'
// guard means a shift can only be closed once; a second close attempt
// affects zero rows and returns ErrNotFound.
func (r *shiftRepository) CloseShift(executor SQLExecutor, shift *models.Shift) error {
	query := `UPDATE shifts
	          SET status = $1, closed_at = $2, closing_cash = $3, computed_closing_cash = $4,
	              handover_cash = $5, handover_recipient_id = $6, closing_note = $7,
	              handover_note = $8, updated_at = $9
	          WHERE id = $10 AND status = $11`
	shift.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		models.ShiftStatusClosed, shift.ClosedAt, shift.ClosingCash, shift.ComputedClosingCash,
		shift.HandoverCash, shift.HandoverRecipientID, shift.ClosingNote,
		shift.HandoverNote, shift.UpdatedAt,
		shift.ID, models.ShiftStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("%w: closing shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for closing shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	shift.Status = models.ShiftStatusClosed
	return nil
}

// UpdateShift rewrites every mutable field of a shift. This is the
// administrative override path; the partial unique index still rejects a
// rewrite that would produce a second OPEN shift for the hotel.
func (r *shiftRepository) UpdateShift(executor SQLExecutor, shift *models.Shift) error {
	query := `UPDATE shifts
	          SET manager_id = $1, status = $2, opened_at = $3, closed_at = $4,
	              opening_cash = $5, closing_cash = $6, computed_closing_cash = $7,
	              handover_cash = $8, handover_recipient_id = $9, opening_note = $10,
	              closing_note = $11, handover_note = $12, updated_at = $13
	          WHERE id = $14`
	shift.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		shift.ManagerID, shift.Status, shift.OpenedAt, shift.ClosedAt,
		shift.OpeningCash, shift.ClosingCash, shift.ComputedClosingCash,
		shift.HandoverCash, shift.HandoverRecipientID, shift.OpeningNote,
		shift.ClosingNote, shift.HandoverNote, shift.UpdatedAt,
		shift.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: hotel already has an open shift", ErrDuplicateKey)
		}
		return fmt.Errorf("%w: updating shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for shift update ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClosedShifts removes every CLOSED shift for a hotel. Ledger entries
// must be deleted first (same transaction) by the ledger repository.
func (r *shiftRepository) DeleteClosedShifts(executor SQLExecutor, hotelID int64) (int64, error) {
	query := `DELETE FROM shifts WHERE hotel_id = $1 AND status = $2`
	result, err := executor.Exec(query, hotelID, models.ShiftStatusClosed)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting closed shifts for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting closed shifts for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	return rowsAffected, nil
}
