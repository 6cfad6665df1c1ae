package services

import (
	"errors"
	"testing"

	"hotel_desk_backend/internal/models"
)

func newRoomFixture(rooms []*models.Room, stays ...*models.RoomStay) RoomService {
	hotel := &models.Hotel{ID: 1, Name: "Altyn Orda", Timezone: "Asia/Almaty", CurrencyCode: "KZT"}
	return NewRoomService(newFakeRoomRepo(rooms...), newFakeHotelRepo(hotel), newFakeStayRepo(stays...), fakeDatabase{})
}

func TestCreateRoomDefaults(t *testing.T) {
	svc := newRoomFixture(nil)

	room, err := svc.CreateRoom(1, CreateRoomRequest{Label: "101"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("status = %s, want AVAILABLE", room.Status)
	}
	if !room.IsActive {
		t.Error("new room should start active")
	}

	if _, err := svc.CreateRoom(99, CreateRoomRequest{Label: "101"}); !errors.Is(err, ErrHotelNotFound) {
		t.Errorf("unknown hotel error = %v, want ErrHotelNotFound", err)
	}
}

func TestUpdateRoomRetireBlockedByActiveStay(t *testing.T) {
	room := availableRoom()
	room.Status = models.RoomStatusOccupied
	stay := checkedInStay()
	svc := newRoomFixture([]*models.Room{room}, stay)

	isActive := false
	if _, err := svc.UpdateRoom(1, UpdateRoomRequest{IsActive: &isActive}); !errors.Is(err, ErrRoomOccupied) {
		t.Errorf("retire error = %v, want ErrRoomOccupied", err)
	}
}

func TestMarkRoomClean(t *testing.T) {
	room := availableRoom()
	room.Status = models.RoomStatusDirty
	svc := newRoomFixture([]*models.Room{room})

	cleaned, err := svc.MarkRoomClean(1)
	if err != nil {
		t.Fatalf("MarkRoomClean failed: %v", err)
	}
	if cleaned.Status != models.RoomStatusAvailable {
		t.Errorf("status = %s, want AVAILABLE", cleaned.Status)
	}
}

func TestMarkRoomCleanRejectsNonDirty(t *testing.T) {
	svc := newRoomFixture([]*models.Room{availableRoom()})
	if _, err := svc.MarkRoomClean(1); !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if _, err := svc.MarkRoomClean(99); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("missing room error = %v, want ErrRoomNotFound", err)
	}
}
