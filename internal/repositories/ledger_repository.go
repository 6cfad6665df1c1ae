package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
)

// LedgerRepository defines the interface for ledger-entry database
// operations. Entries are append-only: there is no update or single-row
// delete; the only removal path is the closed-history bulk clear.
type LedgerRepository interface {
	CreateEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error)
	GetEntryByID(entryID int64) (*models.LedgerEntry, error)
	GetEntriesByShift(shiftID int64) ([]models.LedgerEntry, error)
	DeleteEntriesForClosedShifts(executor SQLExecutor, hotelID int64) (int64, error)
}

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error) {
	query := `INSERT INTO ledger_entries
	            (shift_id, entry_type, method, amount, note, recorded_at, recorded_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	err := executor.QueryRow(query,
		entry.ShiftID, entry.EntryType, entry.Method, entry.Amount, entry.Note,
		entry.RecordedAt, entry.RecordedBy,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating ledger entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *ledgerRepository) GetEntryByID(entryID int64) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{}
	query := `SELECT id, shift_id, entry_type, method, amount, note, recorded_at, recorded_by
	          FROM ledger_entries
	          WHERE id = $1`
	err := r.db.QueryRow(query, entryID).Scan(
		&entry.ID, &entry.ShiftID, &entry.EntryType, &entry.Method, &entry.Amount,
		&entry.Note, &entry.RecordedAt, &entry.RecordedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting ledger entry by ID %d: %v", ErrDatabaseError, entryID, err)
	}
	return entry, nil
}

func (r *ledgerRepository) GetEntriesByShift(shiftID int64) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	query := `SELECT id, shift_id, entry_type, method, amount, note, recorded_at, recorded_by
	          FROM ledger_entries
	          WHERE shift_id = $1
	          ORDER BY recorded_at, id`

	rows, err := r.db.Query(query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying ledger entries for shift %d: %v", ErrDatabaseError, shiftID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.LedgerEntry
		err := rows.Scan(
			&e.ID, &e.ShiftID, &e.EntryType, &e.Method, &e.Amount,
			&e.Note, &e.RecordedAt, &e.RecordedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning ledger entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ledger entry rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// DeleteEntriesForClosedShifts removes the ledger rows belonging to a
// hotel's CLOSED shifts, ahead of the shifts themselves.
func (r *ledgerRepository) DeleteEntriesForClosedShifts(executor SQLExecutor, hotelID int64) (int64, error) {
	query := `DELETE FROM ledger_entries
	          WHERE shift_id IN (SELECT id FROM shifts WHERE hotel_id = $1 AND status = $2)`
	result, err := executor.Exec(query, hotelID, models.ShiftStatusClosed)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting ledger entries for closed shifts of hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for ledger bulk delete for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	return rowsAffected, nil
}
