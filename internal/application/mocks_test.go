package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
)

// --- Bookings ---

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, status *bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) Recent(ctx context.Context, limit int) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) BookedRooms(ctx context.Context, roomID uuid.UUID, stay bookingDomain.StayRange) (int, error) {
	args := m.Called(ctx, roomID, stay)
	return args.Int(0), args.Error(1)
}

// Reserve returns the locked room snapshot and booked count from the
// expectation and runs admit on them, as the transactional repository does.
func (m *mockBookingRepo) Reserve(ctx context.Context, roomID uuid.UUID, stay bookingDomain.StayRange, admit bookingDomain.AdmitFunc) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, roomID, stay)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	var room *bookingDomain.RoomInventory
	if args.Get(0) != nil {
		room = args.Get(0).(*bookingDomain.RoomInventory)
	}
	return admit(room, args.Int(1))
}

func (m *mockBookingRepo) HasStayAtHotel(ctx context.Context, userID, hotelID uuid.UUID, statuses []bookingDomain.BookingStatus) (bool, error) {
	args := m.Called(ctx, userID, hotelID, statuses)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) FindEndedConfirmed(ctx context.Context, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) Revenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

// --- Hotels and rooms ---

type mockHotelRepo struct {
	mock.Mock
}

func (m *mockHotelRepo) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotelDomain.Hotel), args.Error(1)
}

func (m *mockHotelRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*hotelDomain.Hotel, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*hotelDomain.Hotel), args.Error(1)
}

func (m *mockHotelRepo) Search(ctx context.Context, filter hotelDomain.SearchFilter, page, limit int) ([]hotelDomain.Listing, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]hotelDomain.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockHotelRepo) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHotelRepo) Update(ctx context.Context, h *hotelDomain.Hotel) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHotelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockHotelRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHotelRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	return m.Called(ctx, id, rating).Error(0)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotelDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) FindInHotel(ctx context.Context, hotelID, roomID uuid.UUID) (*hotelDomain.Room, error) {
	args := m.Called(ctx, hotelID, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotelDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*hotelDomain.Room, error) {
	args := m.Called(ctx, hotelID)
	return args.Get(0).([]*hotelDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*hotelDomain.Room, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*hotelDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) Save(ctx context.Context, r *hotelDomain.Room) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRoomRepo) Update(ctx context.Context, r *hotelDomain.Room) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// --- Users and reviews ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*userDomain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*userDomain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role userDomain.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, u *userDomain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *userDomain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Save(ctx context.Context, rv *reviewDomain.Review) error {
	return m.Called(ctx, rv).Error(0)
}

func (m *mockReviewRepo) ExistsForUser(ctx context.Context, hotelID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, hotelID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) FindByHotelID(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	args := m.Called(ctx, hotelID, page, limit)
	return args.Get(0).([]*reviewDomain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, hotelID uuid.UUID) (float64, error) {
	args := m.Called(ctx, hotelID)
	return args.Get(0).(float64), args.Error(1)
}

// --- Publisher and cache ---

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.CloudEvent
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, e messaging.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingCache struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// --- Fixtures ---

type bookingFixture struct {
	bookings  *mockBookingRepo
	hotels    *mockHotelRepo
	rooms     *mockRoomRepo
	users     *mockUserRepo
	publisher *recordingPublisher
	service   *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings:  new(mockBookingRepo),
		hotels:    new(mockHotelRepo),
		rooms:     new(mockRoomRepo),
		users:     new(mockUserRepo),
		publisher: &recordingPublisher{},
	}
	f.service = NewBookingService(f.bookings, f.hotels, f.rooms, f.users, f.publisher, metrics.NewNop(), zap.NewNop())
	return f
}

// expectNoRelations makes relation lookups return empty maps.
func (f *bookingFixture) expectNoRelations() {
	f.hotels.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*hotelDomain.Hotel{}, nil).Maybe()
	f.rooms.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*hotelDomain.Room{}, nil).Maybe()
	f.users.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*userDomain.User{}, nil).Maybe()
}

func testStay(daysAhead, nights int) bookingDomain.StayRange {
	in := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, daysAhead)
	return bookingDomain.StayRange{CheckIn: in, CheckOut: in.AddDate(0, 0, nights)}
}

func testBooking(userID uuid.UUID, stay bookingDomain.StayRange, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	now := time.Now().UTC()
	payment := bookingDomain.PaymentPending
	if status == bookingDomain.StatusConfirmed || status == bookingDomain.StatusCompleted {
		payment = bookingDomain.PaymentCompleted
	}
	return bookingDomain.ReconstructBooking(
		uuid.New(), userID, uuid.New(), uuid.New(),
		stay, 2, 1, 200,
		status, payment,
		nil, nil, 1, now, now,
	)
}

func testUser(role userDomain.Role) *userDomain.User {
	now := time.Now().UTC()
	return userDomain.Reconstruct(uuid.New(), "Test User", "user@example.com", "", "hash", role, userDomain.StatusActive, now, now)
}
