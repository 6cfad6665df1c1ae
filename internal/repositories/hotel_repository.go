package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
)

// HotelRepository defines the interface for hotel-related database operations.
type HotelRepository interface {
	CreateHotel(executor SQLExecutor, hotel *models.Hotel) (int64, error)
	GetHotelByID(hotelID int64) (*models.Hotel, error)
	GetHotels(page, pageSize int) ([]models.Hotel, int, error)
	UpdateHotel(executor SQLExecutor, hotel *models.Hotel) error
	DeleteHotel(executor SQLExecutor, hotelID int64) error
}

type hotelRepository struct {
	db *sql.DB
}

// NewHotelRepository creates a new instance of HotelRepository.
func NewHotelRepository(db *sql.DB) HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) CreateHotel(executor SQLExecutor, hotel *models.Hotel) (int64, error) {
	query := `INSERT INTO hotels (name, address, timezone, currency_code, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	now := time.Now()
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	err := executor.QueryRow(query,
		hotel.Name, hotel.Address, hotel.Timezone, hotel.CurrencyCode,
		hotel.CreatedAt, hotel.UpdatedAt,
	).Scan(&hotel.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating hotel: %v", ErrDatabaseError, err)
	}
	return hotel.ID, nil
}

func scanHotelRow(s scanner, hotel *models.Hotel) error {
	return s.Scan(
		&hotel.ID, &hotel.Name, &hotel.Address, &hotel.Timezone, &hotel.CurrencyCode,
		&hotel.CreatedAt, &hotel.UpdatedAt,
	)
}

func (r *hotelRepository) GetHotelByID(hotelID int64) (*models.Hotel, error) {
	hotel := &models.Hotel{}
	query := `SELECT id, name, address, timezone, currency_code, created_at, updated_at
	          FROM hotels
	          WHERE id = $1`
	err := scanHotelRow(r.db.QueryRow(query, hotelID), hotel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting hotel by ID %d: %v", ErrDatabaseError, hotelID, err)
	}
	return hotel, nil
}

func (r *hotelRepository) GetHotels(page, pageSize int) ([]models.Hotel, int, error) {
	hotels := []models.Hotel{}
	totalCount := 0

	query := `SELECT id, name, address, timezone, currency_code, created_at, updated_at,
	                 COUNT(*) OVER() as total_count
	          FROM hotels
	          ORDER BY name
	          LIMIT $1 OFFSET $2`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying hotels: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h models.Hotel
		err := rows.Scan(
			&h.ID, &h.Name, &h.Address, &h.Timezone, &h.CurrencyCode,
			&h.CreatedAt, &h.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning hotel: %v", ErrDatabaseError, err)
		}
		hotels = append(hotels, h)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating hotel rows: %v", ErrDatabaseError, err)
	}
	return hotels, totalCount, nil
}

func (r *hotelRepository) UpdateHotel(executor SQLExecutor, hotel *models.Hotel) error {
	query := `UPDATE hotels
	          SET name = $1, address = $2, timezone = $3, currency_code = $4, updated_at = $5
	          WHERE id = $6`
	hotel.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		hotel.Name, hotel.Address, hotel.Timezone, hotel.CurrencyCode, hotel.UpdatedAt,
		hotel.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating hotel ID %d: %v", ErrDatabaseError, hotel.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for hotel update ID %d: %v", ErrDatabaseError, hotel.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHotel removes a hotel and, via cascade, its rooms and manager
// assignments. Shifts do not cascade: a hotel with recorded shift history
// trips the foreign key and surfaces ErrForeignKeyViolation.
func (r *hotelRepository) DeleteHotel(executor SQLExecutor, hotelID int64) error {
	query := `DELETE FROM hotels WHERE id = $1`
	result, err := executor.Exec(query, hotelID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: hotel %d still has shift history", ErrForeignKeyViolation, hotelID)
		}
		return fmt.Errorf("%w: deleting hotel ID %d: %v", ErrDatabaseError, hotelID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting hotel ID %d: %v", ErrDatabaseError, hotelID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
