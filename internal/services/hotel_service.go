package services

import (
	"errors"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// ErrHotelNotEmpty is returned when a hotel cannot be deleted because shift
// history still references it.
var ErrHotelNotEmpty = errors.New("hotel still has recorded shifts; clear closed history first")

// --- Hotel DTOs ---

// CreateHotelRequest registers a new property.
type CreateHotelRequest struct {
	Name         string  `json:"name" binding:"required"`
	Address      *string `json:"address"`
	Timezone     string  `json:"timezone" binding:"required"`
	CurrencyCode string  `json:"currency_code" binding:"required"`
}

// UpdateHotelRequest amends hotel attributes. Nil fields are left alone.
type UpdateHotelRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	Timezone     *string `json:"timezone"`
	CurrencyCode *string `json:"currency_code"`
}

// --- HotelService Interface ---
type HotelService interface {
	CreateHotel(req CreateHotelRequest) (*models.Hotel, error)
	GetHotelByID(hotelID int64) (*models.Hotel, error)
	GetHotels(page, pageSize int) ([]models.Hotel, int, error)
	UpdateHotel(hotelID int64, req UpdateHotelRequest) (*models.Hotel, error)
	DeleteHotel(hotelID int64) error
}

// --- hotelService Implementation ---
type hotelService struct {
	hotelRepo repositories.HotelRepository
	db        repositories.Database
}

// NewHotelService creates a new instance of HotelService.
func NewHotelService(hr repositories.HotelRepository, db repositories.Database) HotelService {
	return &hotelService{hotelRepo: hr, db: db}
}

func validateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: unknown timezone '%s'", ErrValidation, tz)
	}
	return nil
}

func validateCurrencyCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: currency code must be a 3-letter ISO code", ErrValidation)
	}
	for _, ch := range []byte(code) {
		if ch < 'A' || ch > 'Z' {
			return fmt.Errorf("%w: currency code must be uppercase letters", ErrValidation)
		}
	}
	return nil
}

func (s *hotelService) CreateHotel(req CreateHotelRequest) (*models.Hotel, error) {
	if err := validateTimezone(req.Timezone); err != nil {
		return nil, err
	}
	if err := validateCurrencyCode(req.CurrencyCode); err != nil {
		return nil, err
	}

	hotel := &models.Hotel{
		Name:         req.Name,
		Address:      NormalizeNote(req.Address),
		Timezone:     req.Timezone,
		CurrencyCode: req.CurrencyCode,
	}
	if _, err := s.hotelRepo.CreateHotel(s.db, hotel); err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}
	return hotel, nil
}

func (s *hotelService) GetHotelByID(hotelID int64) (*models.Hotel, error) {
	hotel, err := s.hotelRepo.GetHotelByID(hotelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to get hotel by ID: %w", err)
	}
	return hotel, nil
}

func (s *hotelService) GetHotels(page, pageSize int) ([]models.Hotel, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	hotels, totalCount, err := s.hotelRepo.GetHotels(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get hotels: %w", err)
	}
	return hotels, totalCount, nil
}

func (s *hotelService) UpdateHotel(hotelID int64, req UpdateHotelRequest) (*models.Hotel, error) {
	hotel, err := s.hotelRepo.GetHotelByID(hotelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to fetch hotel for update: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: hotel name must not be empty", ErrValidation)
		}
		hotel.Name = *req.Name
	}
	if req.Address != nil {
		hotel.Address = NormalizeNote(req.Address)
	}
	if req.Timezone != nil {
		if err := validateTimezone(*req.Timezone); err != nil {
			return nil, err
		}
		hotel.Timezone = *req.Timezone
	}
	if req.CurrencyCode != nil {
		if err := validateCurrencyCode(*req.CurrencyCode); err != nil {
			return nil, err
		}
		hotel.CurrencyCode = *req.CurrencyCode
	}

	if err := s.hotelRepo.UpdateHotel(s.db, hotel); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to update hotel: %w", err)
	}
	return hotel, nil
}

// DeleteHotel removes a hotel. Shift history does not cascade; a hotel with
// recorded shifts is refused until the history is cleared.
func (s *hotelService) DeleteHotel(hotelID int64) error {
	if err := s.hotelRepo.DeleteHotel(s.db, hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrHotelNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrHotelNotEmpty
		}
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	return nil
}
