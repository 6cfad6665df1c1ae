package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
)

// ManagerRepository defines the interface for manager-assignment database
// operations. PIN uniqueness among active assignments of a hotel is enforced
// by a partial unique index; violations surface as ErrDuplicateKey.
type ManagerRepository interface {
	CreateAssignment(executor SQLExecutor, assignment *models.ManagerAssignment) (int64, error)
	GetAssignmentByID(assignmentID int64) (*models.ManagerAssignment, error)
	GetActiveAssignmentByPin(hotelID int64, pinCode string) (*models.ManagerAssignment, error)
	GetAssignmentsByHotel(hotelID int64, includeInactive bool) ([]models.ManagerAssignment, error)
	UpdateAssignment(executor SQLExecutor, assignment *models.ManagerAssignment) error
	DeactivateAssignment(executor SQLExecutor, assignmentID int64) error
}

type managerRepository struct {
	db *sql.DB
}

// NewManagerRepository creates a new instance of ManagerRepository.
func NewManagerRepository(db *sql.DB) ManagerRepository {
	return &managerRepository{db: db}
}

const managerAssignmentColumns = `id, hotel_id, manager_name, pin_code, shift_pay_amount,
	revenue_share_pct, bonus_threshold, bonus_amount, is_active, created_at, updated_at`

func scanAssignmentRow(s scanner, a *models.ManagerAssignment) error {
	return s.Scan(
		&a.ID, &a.HotelID, &a.ManagerName, &a.PinCode, &a.ShiftPayAmount,
		&a.RevenueSharePct, &a.BonusThreshold, &a.BonusAmount, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *managerRepository) CreateAssignment(executor SQLExecutor, assignment *models.ManagerAssignment) (int64, error) {
	query := `INSERT INTO manager_assignments
	            (hotel_id, manager_name, pin_code, shift_pay_amount, revenue_share_pct,
	             bonus_threshold, bonus_amount, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	now := time.Now()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	err := executor.QueryRow(query,
		assignment.HotelID, assignment.ManagerName, assignment.PinCode,
		assignment.ShiftPayAmount, assignment.RevenueSharePct,
		assignment.BonusThreshold, assignment.BonusAmount, assignment.IsActive,
		assignment.CreatedAt, assignment.UpdatedAt,
	).Scan(&assignment.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: pin code already in use at this hotel", ErrDuplicateKey)
		}
		return 0, fmt.Errorf("%w: creating manager assignment: %v", ErrDatabaseError, err)
	}
	return assignment.ID, nil
}

func (r *managerRepository) GetAssignmentByID(assignmentID int64) (*models.ManagerAssignment, error) {
	a := &models.ManagerAssignment{}
	query := `SELECT ` + managerAssignmentColumns + ` FROM manager_assignments WHERE id = $1`
	err := scanAssignmentRow(r.db.QueryRow(query, assignmentID), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting manager assignment by ID %d: %v", ErrDatabaseError, assignmentID, err)
	}
	return a, nil
}

func (r *managerRepository) GetActiveAssignmentByPin(hotelID int64, pinCode string) (*models.ManagerAssignment, error) {
	a := &models.ManagerAssignment{}
	query := `SELECT ` + managerAssignmentColumns + `
	          FROM manager_assignments
	          WHERE hotel_id = $1 AND pin_code = $2 AND is_active = TRUE`
	err := scanAssignmentRow(r.db.QueryRow(query, hotelID, pinCode), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting manager assignment by pin for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	return a, nil
}

func (r *managerRepository) GetAssignmentsByHotel(hotelID int64, includeInactive bool) ([]models.ManagerAssignment, error) {
	assignments := []models.ManagerAssignment{}
	query := `SELECT ` + managerAssignmentColumns + `
	          FROM manager_assignments
	          WHERE hotel_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY manager_name`

	rows, err := r.db.Query(query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying manager assignments for hotel %d: %v", ErrDatabaseError, hotelID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.ManagerAssignment
		if err := scanAssignmentRow(rows, &a); err != nil {
			return nil, fmt.Errorf("%w: scanning manager assignment: %v", ErrDatabaseError, err)
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating manager assignment rows: %v", ErrDatabaseError, err)
	}
	return assignments, nil
}

func (r *managerRepository) UpdateAssignment(executor SQLExecutor, assignment *models.ManagerAssignment) error {
	query := `UPDATE manager_assignments
	          SET manager_name = $1, pin_code = $2, shift_pay_amount = $3,
	              revenue_share_pct = $4, bonus_threshold = $5, bonus_amount = $6,
	              is_active = $7, updated_at = $8
	          WHERE id = $9`
	assignment.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		assignment.ManagerName, assignment.PinCode, assignment.ShiftPayAmount,
		assignment.RevenueSharePct, assignment.BonusThreshold, assignment.BonusAmount,
		assignment.IsActive, assignment.UpdatedAt,
		assignment.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: pin code already in use at this hotel", ErrDuplicateKey)
		}
		return fmt.Errorf("%w: updating manager assignment ID %d: %v", ErrDatabaseError, assignment.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for manager assignment update ID %d: %v", ErrDatabaseError, assignment.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateAssignment soft-removes an assignment. Shifts that reference it
// keep a valid foreign key; the assignment just stops matching PIN lookups.
func (r *managerRepository) DeactivateAssignment(executor SQLExecutor, assignmentID int64) error {
	query := `UPDATE manager_assignments SET is_active = FALSE, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), assignmentID)
	if err != nil {
		return fmt.Errorf("%w: deactivating manager assignment ID %d: %v", ErrDatabaseError, assignmentID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deactivating assignment ID %d: %v", ErrDatabaseError, assignmentID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
