package services

import (
	"errors"
	"fmt"
	"testing"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// shiftHistoryHotelRepo refuses deletes the way the database does when shift
// rows still reference the hotel.
type shiftHistoryHotelRepo struct {
	*fakeHotelRepo
}

func (r shiftHistoryHotelRepo) DeleteHotel(_ repositories.SQLExecutor, hotelID int64) error {
	if _, ok := r.hotels[hotelID]; !ok {
		return repositories.ErrNotFound
	}
	return fmt.Errorf("%w: hotel %d still has shift history", repositories.ErrForeignKeyViolation, hotelID)
}

func TestCreateHotel(t *testing.T) {
	svc := NewHotelService(newFakeHotelRepo(), fakeDatabase{})

	hotel, err := svc.CreateHotel(CreateHotelRequest{
		Name:         "Altyn Orda",
		Address:      strPtr(" 12 Abay Ave "),
		Timezone:     "Asia/Almaty",
		CurrencyCode: "KZT",
	})
	if err != nil {
		t.Fatalf("CreateHotel failed: %v", err)
	}
	if hotel.ID == 0 {
		t.Error("hotel ID not assigned")
	}
	if hotel.Address == nil || *hotel.Address != "12 Abay Ave" {
		t.Errorf("address = %v, want trimmed", hotel.Address)
	}
}

func TestCreateHotelValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateHotelRequest
	}{
		{
			name: "unknown timezone",
			req:  CreateHotelRequest{Name: "H", Timezone: "Mars/Olympus", CurrencyCode: "KZT"},
		},
		{
			name: "currency too short",
			req:  CreateHotelRequest{Name: "H", Timezone: "UTC", CurrencyCode: "KZ"},
		},
		{
			name: "currency lowercase",
			req:  CreateHotelRequest{Name: "H", Timezone: "UTC", CurrencyCode: "kzt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHotelService(newFakeHotelRepo(), fakeDatabase{})
			if _, err := svc.CreateHotel(tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateHotel error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateHotel(t *testing.T) {
	existing := &models.Hotel{ID: 1, Name: "Altyn Orda", Timezone: "Asia/Almaty", CurrencyCode: "KZT"}
	svc := NewHotelService(newFakeHotelRepo(existing), fakeDatabase{})

	updated, err := svc.UpdateHotel(1, UpdateHotelRequest{CurrencyCode: strPtr("USD")})
	if err != nil {
		t.Fatalf("UpdateHotel failed: %v", err)
	}
	if updated.CurrencyCode != "USD" {
		t.Errorf("currency = %s, want USD", updated.CurrencyCode)
	}
	if updated.Name != "Altyn Orda" {
		t.Errorf("name changed unexpectedly to %s", updated.Name)
	}

	if _, err := svc.UpdateHotel(1, UpdateHotelRequest{Name: strPtr("")}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, err := svc.UpdateHotel(99, UpdateHotelRequest{}); !errors.Is(err, ErrHotelNotFound) {
		t.Errorf("missing hotel error = %v, want ErrHotelNotFound", err)
	}
}

func TestDeleteHotel(t *testing.T) {
	existing := &models.Hotel{ID: 1, Name: "Altyn Orda", Timezone: "Asia/Almaty", CurrencyCode: "KZT"}
	svc := NewHotelService(newFakeHotelRepo(existing), fakeDatabase{})

	if err := svc.DeleteHotel(1); err != nil {
		t.Fatalf("DeleteHotel failed: %v", err)
	}
	if err := svc.DeleteHotel(1); !errors.Is(err, ErrHotelNotFound) {
		t.Errorf("double delete error = %v, want ErrHotelNotFound", err)
	}
}

func TestDeleteHotelWithShiftHistory(t *testing.T) {
	existing := &models.Hotel{ID: 1, Name: "Altyn Orda", Timezone: "Asia/Almaty", CurrencyCode: "KZT"}
	svc := NewHotelService(shiftHistoryHotelRepo{newFakeHotelRepo(existing)}, fakeDatabase{})

	if err := svc.DeleteHotel(1); !errors.Is(err, ErrHotelNotEmpty) {
		t.Errorf("DeleteHotel error = %v, want ErrHotelNotEmpty", err)
	}
}
