package services

import (
	"errors"
	"fmt"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// ErrRoomOccupied is returned when a room operation requires the room to be
// free of an active stay.
var ErrRoomOccupied = errors.New("room has an active stay")

// --- Room DTOs ---

// CreateRoomRequest adds a room to a hotel's inventory.
type CreateRoomRequest struct {
	Label string `json:"label" binding:"required"`
	Floor *int   `json:"floor"`
}

// UpdateRoomRequest amends room attributes. Nil fields are left alone.
type UpdateRoomRequest struct {
	Label    *string `json:"label"`
	Floor    *int    `json:"floor"`
	Status   *string `json:"status"`
	IsActive *bool   `json:"is_active"`
}

// --- RoomService Interface ---
type RoomService interface {
	CreateRoom(hotelID int64, req CreateRoomRequest) (*models.Room, error)
	GetRoomByID(roomID int64) (*models.Room, error)
	GetRoomsByHotel(hotelID int64, includeInactive bool) ([]models.Room, error)
	UpdateRoom(roomID int64, req UpdateRoomRequest) (*models.Room, error)
	// MarkRoomClean moves a DIRTY room back to AVAILABLE after housekeeping.
	MarkRoomClean(roomID int64) (*models.Room, error)
}

// --- roomService Implementation ---
type roomService struct {
	roomRepo  repositories.RoomRepository
	hotelRepo repositories.HotelRepository
	stayRepo  repositories.StayRepository
	db        repositories.Database
}

// NewRoomService creates a new instance of RoomService.
func NewRoomService(rr repositories.RoomRepository, hr repositories.HotelRepository, str repositories.StayRepository, db repositories.Database) RoomService {
	return &roomService{roomRepo: rr, hotelRepo: hr, stayRepo: str, db: db}
}

func (s *roomService) CreateRoom(hotelID int64, req CreateRoomRequest) (*models.Room, error) {
	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for room creation: %w", err)
	}

	room := &models.Room{
		HotelID:  hotelID,
		Label:    req.Label,
		Floor:    req.Floor,
		Status:   models.RoomStatusAvailable,
		IsActive: true,
	}
	if _, err := s.roomRepo.CreateRoom(s.db, room); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: room label '%s' already exists at this hotel", ErrValidation, req.Label)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *roomService) GetRoomByID(roomID int64) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}
	return room, nil
}

func (s *roomService) GetRoomsByHotel(hotelID int64, includeInactive bool) ([]models.Room, error) {
	if _, err := s.hotelRepo.GetHotelByID(hotelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to validate hotel for room listing: %w", err)
	}
	rooms, err := s.roomRepo.GetRoomsByHotel(hotelID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}
	return rooms, nil
}

func (s *roomService) UpdateRoom(roomID int64, req UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for update: %w", err)
	}

	if req.Label != nil {
		if *req.Label == "" {
			return nil, fmt.Errorf("%w: room label must not be empty", ErrValidation)
		}
		room.Label = *req.Label
	}
	if req.Floor != nil {
		room.Floor = req.Floor
	}
	if req.Status != nil {
		if !models.IsValidRoomStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown room status '%s'", ErrValidation, *req.Status)
		}
		room.Status = *req.Status
	}
	if req.IsActive != nil {
		// A room with an active stay cannot be retired.
		if !*req.IsActive {
			if _, err := s.stayRepo.GetActiveStayByRoom(roomID); err == nil {
				return nil, ErrRoomOccupied
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to check active stay before retiring room: %w", err)
			}
		}
		room.IsActive = *req.IsActive
	}

	if err := s.roomRepo.UpdateRoom(s.db, room); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: room label '%s' already exists at this hotel", ErrValidation, room.Label)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

// MarkRoomClean is the housekeeping transition DIRTY -> AVAILABLE. The guard
// rejects the flip if the room is in any other state.
func (s *roomService) MarkRoomClean(roomID int64) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for cleaning: %w", err)
	}
	if room.Status != models.RoomStatusDirty {
		return nil, fmt.Errorf("%w: room %s is %s, not %s", ErrValidation, room.Label, room.Status, models.RoomStatusDirty)
	}

	dirty := models.RoomStatusDirty
	if err := s.roomRepo.UpdateRoomStatus(s.db, roomID, models.RoomStatusAvailable, &dirty); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %s changed state", ErrValidation, room.Label)
		}
		return nil, fmt.Errorf("failed to mark room clean: %w", err)
	}
	room.Status = models.RoomStatusAvailable
	return room, nil
}
