package services

import (
	"database/sql"
	"fmt"
	"time"

	"hotel_desk_backend/internal/models"
	"hotel_desk_backend/internal/repositories"
)

// In-memory repository fakes. The executor argument is ignored: the services
// under test pass their Database (or a transaction from it) through, and
// these fakes keep state in maps instead.

// fakeTransaction satisfies repositories.Transaction without touching a
// database; the fakes never look at the executor they receive.
type fakeTransaction struct{}

func (fakeTransaction) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (fakeTransaction) QueryRow(query string, args ...interface{}) *sql.Row        { return nil }
func (fakeTransaction) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }
func (fakeTransaction) Commit() error                                              { return nil }
func (fakeTransaction) Rollback() error                                            { return nil }

// fakeDatabase satisfies repositories.Database for service fixtures.
type fakeDatabase struct {
	fakeTransaction
}

func (fakeDatabase) Begin() (repositories.Transaction, error) {
	return fakeTransaction{}, nil
}

type fakeHotelRepo struct {
	hotels map[int64]*models.Hotel
}

func newFakeHotelRepo(hotels ...*models.Hotel) *fakeHotelRepo {
	r := &fakeHotelRepo{hotels: make(map[int64]*models.Hotel)}
	for _, h := range hotels {
		r.hotels[h.ID] = h
	}
	return r
}

func (r *fakeHotelRepo) CreateHotel(_ repositories.SQLExecutor, hotel *models.Hotel) (int64, error) {
	hotel.ID = int64(len(r.hotels) + 1)
	r.hotels[hotel.ID] = hotel
	return hotel.ID, nil
}

func (r *fakeHotelRepo) GetHotelByID(hotelID int64) (*models.Hotel, error) {
	h, ok := r.hotels[hotelID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return h, nil
}

func (r *fakeHotelRepo) GetHotels(page, pageSize int) ([]models.Hotel, int, error) {
	var out []models.Hotel
	for _, h := range r.hotels {
		out = append(out, *h)
	}
	return out, len(out), nil
}

func (r *fakeHotelRepo) UpdateHotel(_ repositories.SQLExecutor, hotel *models.Hotel) error {
	if _, ok := r.hotels[hotel.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.hotels[hotel.ID] = hotel
	return nil
}

func (r *fakeHotelRepo) DeleteHotel(_ repositories.SQLExecutor, hotelID int64) error {
	if _, ok := r.hotels[hotelID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.hotels, hotelID)
	return nil
}

type fakeManagerRepo struct {
	assignments map[int64]*models.ManagerAssignment
}

func newFakeManagerRepo(assignments ...*models.ManagerAssignment) *fakeManagerRepo {
	r := &fakeManagerRepo{assignments: make(map[int64]*models.ManagerAssignment)}
	for _, a := range assignments {
		r.assignments[a.ID] = a
	}
	return r
}

func (r *fakeManagerRepo) CreateAssignment(_ repositories.SQLExecutor, a *models.ManagerAssignment) (int64, error) {
	for _, existing := range r.assignments {
		if existing.HotelID == a.HotelID && existing.IsActive && a.IsActive && existing.PinCode == a.PinCode {
			return 0, fmt.Errorf("%w: pin code already in use at this hotel", repositories.ErrDuplicateKey)
		}
	}
	a.ID = int64(len(r.assignments) + 1)
	r.assignments[a.ID] = a
	return a.ID, nil
}

func (r *fakeManagerRepo) GetAssignmentByID(id int64) (*models.ManagerAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (r *fakeManagerRepo) GetActiveAssignmentByPin(hotelID int64, pinCode string) (*models.ManagerAssignment, error) {
	for _, a := range r.assignments {
		if a.HotelID == hotelID && a.IsActive && a.PinCode == pinCode {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeManagerRepo) GetAssignmentsByHotel(hotelID int64, includeInactive bool) ([]models.ManagerAssignment, error) {
	var out []models.ManagerAssignment
	for _, a := range r.assignments {
		if a.HotelID == hotelID && (includeInactive || a.IsActive) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeManagerRepo) UpdateAssignment(_ repositories.SQLExecutor, a *models.ManagerAssignment) error {
	if _, ok := r.assignments[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.assignments[a.ID] = a
	return nil
}

func (r *fakeManagerRepo) DeactivateAssignment(_ repositories.SQLExecutor, id int64) error {
	a, ok := r.assignments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.IsActive = false
	return nil
}

type fakeShiftRepo struct {
	shifts map[int64]*models.Shift
	nextID int64
}

func newFakeShiftRepo(shifts ...*models.Shift) *fakeShiftRepo {
	r := &fakeShiftRepo{shifts: make(map[int64]*models.Shift)}
	for _, s := range shifts {
		r.shifts[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeShiftRepo) CreateShift(_ repositories.SQLExecutor, shift *models.Shift) (int64, error) {
	var maxNumber int64
	for _, existing := range r.shifts {
		if existing.HotelID != shift.HotelID {
			continue
		}
		if existing.Status == models.ShiftStatusOpen && shift.Status == models.ShiftStatusOpen {
			return 0, fmt.Errorf("%w: hotel already has an open shift", repositories.ErrDuplicateKey)
		}
		if existing.Number > maxNumber {
			maxNumber = existing.Number
		}
	}
	r.nextID++
	shift.ID = r.nextID
	shift.Number = maxNumber + 1
	r.shifts[shift.ID] = shift
	return shift.ID, nil
}

func (r *fakeShiftRepo) GetShiftByID(id int64) (*models.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeShiftRepo) GetShiftForUpdate(_ repositories.SQLExecutor, id int64) (*models.Shift, error) {
	return r.GetShiftByID(id)
}

func (r *fakeShiftRepo) GetOpenShiftByHotel(hotelID int64) (*models.Shift, error) {
	for _, s := range r.shifts {
		if s.HotelID == hotelID && s.Status == models.ShiftStatusOpen {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeShiftRepo) GetShifts(filters models.ShiftFilters) ([]models.Shift, int, error) {
	var out []models.Shift
	for _, s := range r.shifts {
		if filters.HotelID != nil && s.HotelID != *filters.HotelID {
			continue
		}
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (r *fakeShiftRepo) GetShiftsByManager(managerID int64) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range r.shifts {
		if s.ManagerID == managerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) CloseShift(_ repositories.SQLExecutor, shift *models.Shift) error {
	stored, ok := r.shifts[shift.ID]
	if !ok || stored.Status != models.ShiftStatusOpen {
		return repositories.ErrNotFound
	}
	closed := *shift
	closed.Status = models.ShiftStatusClosed
	closed.UpdatedAt = time.Now()
	r.shifts[shift.ID] = &closed
	return nil
}

func (r *fakeShiftRepo) UpdateShift(_ repositories.SQLExecutor, shift *models.Shift) error {
	if _, ok := r.shifts[shift.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *shift
	r.shifts[shift.ID] = &copied
	return nil
}

func (r *fakeShiftRepo) DeleteClosedShifts(_ repositories.SQLExecutor, hotelID int64) (int64, error) {
	var deleted int64
	for id, s := range r.shifts {
		if s.HotelID == hotelID && s.Status == models.ShiftStatusClosed {
			delete(r.shifts, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeLedgerRepo struct {
	entries []models.LedgerEntry
	nextID  int64
}

func (r *fakeLedgerRepo) CreateEntry(_ repositories.SQLExecutor, entry *models.LedgerEntry) (int64, error) {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeLedgerRepo) GetEntryByID(id int64) (*models.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeLedgerRepo) GetEntriesByShift(shiftID int64) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range r.entries {
		if e.ShiftID == shiftID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) DeleteEntriesForClosedShifts(_ repositories.SQLExecutor, hotelID int64) (int64, error) {
	return 0, nil
}

type fakeStayRepo struct {
	stays  map[int64]*models.RoomStay
	nextID int64
}

func newFakeStayRepo(stays ...*models.RoomStay) *fakeStayRepo {
	r := &fakeStayRepo{stays: make(map[int64]*models.RoomStay)}
	for _, s := range stays {
		r.stays[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeStayRepo) CreateStay(_ repositories.SQLExecutor, stay *models.RoomStay) (int64, error) {
	r.nextID++
	stay.ID = r.nextID
	copied := *stay
	r.stays[stay.ID] = &copied
	return stay.ID, nil
}

func (r *fakeStayRepo) GetStayByID(id int64) (*models.RoomStay, error) {
	s, ok := r.stays[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStayRepo) GetActiveStayByRoom(roomID int64) (*models.RoomStay, error) {
	for _, s := range r.stays {
		if s.RoomID == roomID && (s.Status == models.StayStatusScheduled || s.Status == models.StayStatusCheckedIn) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeStayRepo) GetStays(filters models.StayFilters) ([]models.RoomStay, int, error) {
	var out []models.RoomStay
	for _, s := range r.stays {
		if filters.RoomID != nil && s.RoomID != *filters.RoomID {
			continue
		}
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (r *fakeStayRepo) CheckOutStay(_ repositories.SQLExecutor, stayID int64, checkedOutAt time.Time) error {
	s, ok := r.stays[stayID]
	if !ok || s.Status != models.StayStatusCheckedIn {
		return repositories.ErrNotFound
	}
	s.Status = models.StayStatusCheckedOut
	s.ActualCheckOut = &checkedOutAt
	return nil
}

func (r *fakeStayRepo) CancelStay(_ repositories.SQLExecutor, stayID int64) error {
	s, ok := r.stays[stayID]
	if !ok || (s.Status != models.StayStatusScheduled && s.Status != models.StayStatusCheckedIn) {
		return repositories.ErrNotFound
	}
	s.Status = models.StayStatusCancelled
	return nil
}

func (r *fakeStayRepo) UpdateStay(_ repositories.SQLExecutor, stay *models.RoomStay) error {
	if _, ok := r.stays[stay.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *stay
	r.stays[stay.ID] = &copied
	return nil
}

func (r *fakeStayRepo) DeleteStaysForClosedShifts(_ repositories.SQLExecutor, hotelID int64) (int64, error) {
	return 0, nil
}

type fakeRoomRepo struct {
	rooms map[int64]*models.Room
}

func newFakeRoomRepo(rooms ...*models.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: make(map[int64]*models.Room)}
	for _, rm := range rooms {
		r.rooms[rm.ID] = rm
	}
	return r
}

func (r *fakeRoomRepo) CreateRoom(_ repositories.SQLExecutor, room *models.Room) (int64, error) {
	room.ID = int64(len(r.rooms) + 1)
	r.rooms[room.ID] = room
	return room.ID, nil
}

func (r *fakeRoomRepo) GetRoomByID(id int64) (*models.Room, error) {
	rm, ok := r.rooms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *rm
	return &copied, nil
}

func (r *fakeRoomRepo) GetRoomsByHotel(hotelID int64, includeInactive bool) ([]models.Room, error) {
	var out []models.Room
	for _, rm := range r.rooms {
		if rm.HotelID == hotelID && (includeInactive || rm.IsActive) {
			out = append(out, *rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) UpdateRoom(_ repositories.SQLExecutor, room *models.Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *room
	r.rooms[room.ID] = &copied
	return nil
}

func (r *fakeRoomRepo) UpdateRoomStatus(_ repositories.SQLExecutor, roomID int64, newStatus string, expectedStatus *string) error {
	rm, ok := r.rooms[roomID]
	if !ok {
		return repositories.ErrNotFound
	}
	if expectedStatus != nil && rm.Status != *expectedStatus {
		return repositories.ErrNotFound
	}
	rm.Status = newStatus
	return nil
}
