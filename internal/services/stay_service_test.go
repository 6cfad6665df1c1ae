package services

import (
	"errors"
	"testing"
	"time"

	"hotel_desk_backend/internal/models"
)

func TestDerivePaymentMethod(t *testing.T) {
	tests := []struct {
		name string
		cash int64
		card int64
		want *string
	}{
		{name: "cash only", cash: 1000, want: strPtr(models.PaymentMethodCash)},
		{name: "card only", card: 1000, want: strPtr(models.PaymentMethodCard)},
		{name: "mixed", cash: 500, card: 500, want: nil},
		{name: "nothing", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := derivePaymentMethod(tt.cash, tt.card)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("derivePaymentMethod = %q, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("derivePaymentMethod = %v, want %q", got, *tt.want)
			}
		})
	}
}

func TestBuildStayLedgerEntries(t *testing.T) {
	now := time.Now()

	t.Run("card only yields one card entry", func(t *testing.T) {
		entries := buildStayLedgerEntries(1, 0, 20000, "101", now)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		e := entries[0]
		if e.EntryType != models.EntryTypeCashIn || e.Method != models.PaymentMethodCard || e.Amount != 20000 {
			t.Errorf("entry = %+v, want CASH_IN/CARD/20000", e)
		}
	})

	t.Run("split payment yields one entry per method", func(t *testing.T) {
		entries := buildStayLedgerEntries(1, 5000, 15000, "101", now)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		totals := AggregateEntries(entries)
		if totals.CashIn.Cash != 5000 || totals.CashIn.Card != 15000 || totals.CashIn.Total != 20000 {
			t.Errorf("aggregated entries = %+v", totals.CashIn)
		}
		for _, e := range entries {
			if e.ShiftID != 1 {
				t.Errorf("entry not bound to shift: %+v", e)
			}
			if e.Note == nil {
				t.Error("entry missing room note")
			}
		}
	})

	t.Run("no payment yields no entries", func(t *testing.T) {
		if entries := buildStayLedgerEntries(1, 0, 0, "101", now); len(entries) != 0 {
			t.Errorf("got %d entries, want 0", len(entries))
		}
	})
}

type stayFixture struct {
	svc        StayService
	stayRepo   *fakeStayRepo
	roomRepo   *fakeRoomRepo
	ledgerRepo *fakeLedgerRepo
}

func newStayFixture(rooms []*models.Room, shifts []*models.Shift, stays ...*models.RoomStay) *stayFixture {
	stayRepo := newFakeStayRepo(stays...)
	roomRepo := newFakeRoomRepo(rooms...)
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewStayService(stayRepo, roomRepo, newFakeShiftRepo(shifts...), ledgerRepo, fakeDatabase{})
	return &stayFixture{svc: svc, stayRepo: stayRepo, roomRepo: roomRepo, ledgerRepo: ledgerRepo}
}

func availableRoom() *models.Room {
	return &models.Room{ID: 1, HotelID: 1, Label: "101", Status: models.RoomStatusAvailable, IsActive: true}
}

func TestCheckIn(t *testing.T) {
	openShift := &models.Shift{ID: 1, HotelID: 1, ManagerID: 1, Status: models.ShiftStatusOpen, OpenedAt: time.Now()}
	f := newStayFixture([]*models.Room{availableRoom()}, []*models.Shift{openShift})

	stay, err := f.svc.CheckIn(CheckInRequest{
		RoomID:            1,
		GuestName:         strPtr(" A. Serik "),
		ScheduledCheckIn:  "2026-08-23T14:00:00Z",
		ScheduledCheckOut: "2026-08-24T12:00:00Z",
		CashPaid:          80,
		CardPaid:          20,
	})
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if stay.Status != models.StayStatusCheckedIn {
		t.Errorf("stay status = %s, want CHECKED_IN", stay.Status)
	}
	if stay.ShiftID != 1 {
		t.Errorf("stay bound to shift %d, want 1", stay.ShiftID)
	}
	if stay.AmountPaid != 10000 {
		t.Errorf("amount paid = %d, want 10000 minor units", stay.AmountPaid)
	}
	room, _ := f.roomRepo.GetRoomByID(1)
	if room.Status != models.RoomStatusOccupied {
		t.Errorf("room status = %s, want OCCUPIED", room.Status)
	}
	// One CASH_IN entry per non-zero method.
	if len(f.ledgerRepo.entries) != 2 {
		t.Fatalf("persisted %d ledger entries, want 2", len(f.ledgerRepo.entries))
	}
	totals := AggregateEntries(f.ledgerRepo.entries)
	if totals.CashIn.Cash != 8000 || totals.CashIn.Card != 2000 {
		t.Errorf("ledger split = %d/%d, want 8000/2000", totals.CashIn.Cash, totals.CashIn.Card)
	}
}

func TestCheckInRejectsConcurrentlyClosedShift(t *testing.T) {
	openShift := &models.Shift{ID: 1, HotelID: 1, ManagerID: 1, Status: models.ShiftStatusOpen, OpenedAt: time.Now()}
	stayRepo := newFakeStayRepo()
	roomRepo := newFakeRoomRepo(availableRoom())
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewStayService(stayRepo, roomRepo, closedUnderLockShiftRepo{newFakeShiftRepo(openShift)}, ledgerRepo, fakeDatabase{})

	_, err := svc.CheckIn(CheckInRequest{
		RoomID:            1,
		ScheduledCheckIn:  "2026-08-23T14:00:00Z",
		ScheduledCheckOut: "2026-08-24T12:00:00Z",
		CashPaid:          100,
	})
	if !errors.Is(err, ErrNoOpenShift) {
		t.Errorf("CheckIn error = %v, want ErrNoOpenShift", err)
	}
	if len(ledgerRepo.entries) != 0 {
		t.Error("payment must not land on a shift that closed under the lock")
	}
	room, _ := roomRepo.GetRoomByID(1)
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("room status = %s, want AVAILABLE after rejected check-in", room.Status)
	}
}

func TestCheckInRejections(t *testing.T) {
	openShift := &models.Shift{ID: 1, HotelID: 1, ManagerID: 1, Status: models.ShiftStatusOpen, OpenedAt: time.Now()}
	validReq := func() CheckInRequest {
		return CheckInRequest{
			RoomID:            1,
			ScheduledCheckIn:  "2026-08-23T14:00:00Z",
			ScheduledCheckOut: "2026-08-24T12:00:00Z",
			CashPaid:          100,
		}
	}

	t.Run("check-out not after check-in", func(t *testing.T) {
		f := newStayFixture([]*models.Room{availableRoom()}, []*models.Shift{openShift})
		req := validReq()
		req.ScheduledCheckOut = req.ScheduledCheckIn
		if _, err := f.svc.CheckIn(req); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("zero payment", func(t *testing.T) {
		f := newStayFixture([]*models.Room{availableRoom()}, []*models.Shift{openShift})
		req := validReq()
		req.CashPaid = 0
		req.CardPaid = 0
		if _, err := f.svc.CheckIn(req); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("negative payment", func(t *testing.T) {
		f := newStayFixture([]*models.Room{availableRoom()}, []*models.Shift{openShift})
		req := validReq()
		req.CardPaid = -5
		if _, err := f.svc.CheckIn(req); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newStayFixture(nil, []*models.Shift{openShift})
		if _, err := f.svc.CheckIn(validReq()); !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("error = %v, want ErrRoomNotFound", err)
		}
	})

	t.Run("occupied room", func(t *testing.T) {
		room := availableRoom()
		room.Status = models.RoomStatusOccupied
		f := newStayFixture([]*models.Room{room}, []*models.Shift{openShift})
		if _, err := f.svc.CheckIn(validReq()); !errors.Is(err, ErrRoomNotAvailable) {
			t.Errorf("error = %v, want ErrRoomNotAvailable", err)
		}
	})

	t.Run("retired room", func(t *testing.T) {
		room := availableRoom()
		room.IsActive = false
		f := newStayFixture([]*models.Room{room}, []*models.Shift{openShift})
		if _, err := f.svc.CheckIn(validReq()); !errors.Is(err, ErrRoomNotAvailable) {
			t.Errorf("error = %v, want ErrRoomNotAvailable", err)
		}
	})

	t.Run("no open shift", func(t *testing.T) {
		f := newStayFixture([]*models.Room{availableRoom()}, nil)
		if _, err := f.svc.CheckIn(validReq()); !errors.Is(err, ErrNoOpenShift) {
			t.Errorf("error = %v, want ErrNoOpenShift", err)
		}
	})
}

func checkedInStay() *models.RoomStay {
	now := time.Now()
	return &models.RoomStay{
		ID:                1,
		RoomID:            1,
		ShiftID:           1,
		Status:            models.StayStatusCheckedIn,
		ScheduledCheckIn:  now,
		ScheduledCheckOut: now.Add(24 * time.Hour),
		ActualCheckIn:     &now,
		CashPaid:          10000,
		AmountPaid:        10000,
	}
}

func TestCheckOut(t *testing.T) {
	openShift := &models.Shift{ID: 1, HotelID: 1, ManagerID: 1, Status: models.ShiftStatusOpen, OpenedAt: time.Now()}
	room := availableRoom()
	room.Status = models.RoomStatusOccupied
	f := newStayFixture([]*models.Room{room}, []*models.Shift{openShift}, checkedInStay())

	stay, err := f.svc.CheckOut(1)
	if err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	if stay.Status != models.StayStatusCheckedOut {
		t.Errorf("stay status = %s, want CHECKED_OUT", stay.Status)
	}
	if stay.ActualCheckOut == nil {
		t.Error("actual check-out not set")
	}
	updated, _ := f.roomRepo.GetRoomByID(1)
	if updated.Status != models.RoomStatusDirty {
		t.Errorf("room status = %s, want DIRTY for housekeeping", updated.Status)
	}
}

func TestCheckOutRejections(t *testing.T) {
	t.Run("missing stay", func(t *testing.T) {
		f := newStayFixture(nil, nil)
		if _, err := f.svc.CheckOut(99); !errors.Is(err, ErrStayNotFound) {
			t.Errorf("error = %v, want ErrStayNotFound", err)
		}
	})

	t.Run("already checked out", func(t *testing.T) {
		stay := checkedInStay()
		stay.Status = models.StayStatusCheckedOut
		f := newStayFixture(nil, nil, stay)
		if _, err := f.svc.CheckOut(1); !errors.Is(err, ErrStayNotActive) {
			t.Errorf("error = %v, want ErrStayNotActive", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		stay := checkedInStay()
		stay.Status = models.StayStatusCancelled
		f := newStayFixture(nil, nil, stay)
		if _, err := f.svc.CheckOut(1); !errors.Is(err, ErrStayNotActive) {
			t.Errorf("error = %v, want ErrStayNotActive", err)
		}
	})

	t.Run("no open shift", func(t *testing.T) {
		room := availableRoom()
		room.Status = models.RoomStatusOccupied
		f := newStayFixture([]*models.Room{room}, nil, checkedInStay())
		if _, err := f.svc.CheckOut(1); !errors.Is(err, ErrNoOpenShift) {
			t.Errorf("error = %v, want ErrNoOpenShift", err)
		}
	})
}

func TestCancelStay(t *testing.T) {
	room := availableRoom()
	room.Status = models.RoomStatusOccupied
	f := newStayFixture([]*models.Room{room}, nil, checkedInStay())

	stay, err := f.svc.CancelStay(1)
	if err != nil {
		t.Fatalf("CancelStay failed: %v", err)
	}
	if stay.Status != models.StayStatusCancelled {
		t.Errorf("stay status = %s, want CANCELLED", stay.Status)
	}
	updated, _ := f.roomRepo.GetRoomByID(1)
	if updated.Status != models.RoomStatusAvailable {
		t.Errorf("room status = %s, want AVAILABLE after cancel", updated.Status)
	}
	// Ledger entries already posted stay put; no reversals.
	if len(f.ledgerRepo.entries) != 0 {
		t.Errorf("cancel posted %d ledger entries, want 0", len(f.ledgerRepo.entries))
	}
}

func TestCancelStayRejectsTerminal(t *testing.T) {
	stay := checkedInStay()
	stay.Status = models.StayStatusCheckedOut
	f := newStayFixture(nil, nil, stay)
	if _, err := f.svc.CancelStay(1); !errors.Is(err, ErrStayNotActive) {
		t.Errorf("error = %v, want ErrStayNotActive", err)
	}
}

func TestAdminEditStay(t *testing.T) {
	f := newStayFixture(nil, nil, checkedInStay())

	edited, err := f.svc.AdminEditStay(1, AdminStayRequest{
		GuestName: strPtr("  B. Zhanibekov "),
		CashPaid:  float64Ptr(80),
		CardPaid:  float64Ptr(20),
	}, 42)
	if err != nil {
		t.Fatalf("AdminEditStay failed: %v", err)
	}
	if edited.GuestName == nil || *edited.GuestName != "B. Zhanibekov" {
		t.Errorf("guest name = %v, want trimmed", edited.GuestName)
	}
	if edited.CashPaid != 8000 || edited.CardPaid != 2000 {
		t.Errorf("split = %d/%d, want 8000/2000", edited.CashPaid, edited.CardPaid)
	}
	// Total is re-derived when only the split changes.
	if edited.AmountPaid != 10000 {
		t.Errorf("amount paid = %d, want 10000", edited.AmountPaid)
	}
	if edited.PaymentMethod != nil {
		t.Errorf("payment method = %v, want nil for mixed split", edited.PaymentMethod)
	}

	if _, err := f.svc.AdminEditStay(1, AdminStayRequest{Status: strPtr("GHOST")}, 42); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status error = %v, want ErrValidation", err)
	}
	if _, err := f.svc.AdminEditStay(99, AdminStayRequest{}, 42); !errors.Is(err, ErrStayNotFound) {
		t.Errorf("missing stay error = %v, want ErrStayNotFound", err)
	}
}
