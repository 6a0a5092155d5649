package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
)

// completionBatch bounds how many stays one worker pass completes per query.
const completionBatch = 200

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	HotelID    string `json:"hotelId" binding:"required,uuid"`
	RoomID     string `json:"roomId" binding:"required,uuid"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	Guests     int    `json:"guests" binding:"required,min=1"`
	RoomsCount int    `json:"roomsCount" binding:"required,min=1"`
}

// UpdateBookingStatusRequest is the admin status/payment override.
type UpdateBookingStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// BookingService is the application service orchestrating availability and booking use cases.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	hotels   hotelDomain.HotelRepository
	rooms    hotelDomain.RoomRepository
	users    userDomain.UserRepository
	events   eventPublisher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	hotels hotelDomain.HotelRepository,
	rooms hotelDomain.RoomRepository,
	users userDomain.UserRepository,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &BookingService{
		bookings: bookings,
		hotels:   hotels,
		rooms:    rooms,
		users:    users,
		events:   eventPublisher{publisher: publisher, metrics: m, logger: logger},
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAvailability reports how many units of roomID under hotelID are free for the stay.
func (s *BookingService) CheckAvailability(ctx context.Context, hotelID, roomID uuid.UUID, checkIn, checkOut string, requested int) (*bookingDomain.Availability, error) {
	if requested < 1 {
		return nil, domain.NewValidationError("rooms must be at least 1")
	}
	stay, err := bookingDomain.ParseStayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.FindInHotel(ctx, hotelID, roomID)
	if err != nil {
		s.metrics.AvailabilityChecks.WithLabelValues("error").Inc()
		return nil, err
	}

	booked, err := s.bookings.BookedRooms(ctx, roomID, stay)
	if err != nil {
		s.metrics.AvailabilityChecks.WithLabelValues("error").Inc()
		return nil, err
	}

	avail := bookingDomain.Evaluate(room.TotalRooms(), booked, requested)
	if avail.Available {
		s.metrics.AvailabilityChecks.WithLabelValues("available").Inc()
	} else {
		s.metrics.AvailabilityChecks.WithLabelValues("unavailable").Inc()
	}
	return &avail, nil
}

// CreateBooking reserves rooms for the caller. The availability check and the
// insert run under a lock on the room row, so concurrent requests can never
// commit more rooms than the room's inventory.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, domain.NewValidationError("Invalid hotelId")
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, domain.NewValidationError("Invalid roomId")
	}
	stay, err := bookingDomain.ParseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	reservation := bookingDomain.Reservation{
		UserID:     userID,
		HotelID:    hotelID,
		RoomID:     roomID,
		Stay:       stay,
		Guests:     req.Guests,
		RoomsCount: req.RoomsCount,
	}

	start := time.Now()
	bk, err := s.bookings.Reserve(ctx, roomID, stay, reservation.Admit)
	s.metrics.ReserveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.BookingsCreated.WithLabelValues(reserveOutcome(err)).Inc()
		return nil, err
	}
	s.metrics.BookingsCreated.WithLabelValues("created").Inc()

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("room_id", roomID.String()),
		zap.Int("rooms_count", bk.RoomsCount()),
		zap.Float64("total_amount", bk.TotalAmount()),
	)
	s.events.publishBooking(ctx, messaging.BookingCreated, bk, userID)

	result := []BookingDTO{toBookingDTO(bk)}
	if err := s.attachRelations(ctx, result, false); err != nil {
		s.logger.Warn("failed to load booking relations", zap.Error(err))
	}
	return &result[0], nil
}

func reserveOutcome(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInsufficientInventory:
		return "insufficient_inventory"
	case domain.KindNotFound:
		return "not_found"
	case 0:
		return "error"
	default:
		return "rejected"
	}
}

// CancelBooking cancels a booking on behalf of its owner or an admin.
// Checks run in order: existence, ownership, state.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsOwnedBy(actorID) && role != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("Access denied")
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, bk); err != nil {
		return nil, err
	}

	s.events.publishBooking(ctx, messaging.BookingCancelled, bk, actorID)

	result := []BookingDTO{toBookingDTO(bk)}
	if err := s.attachRelations(ctx, result, false); err != nil {
		s.logger.Warn("failed to load booking relations", zap.Error(err))
	}
	return &result[0], nil
}

// GetBooking returns a booking visible to its owner or an admin.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID, role string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsOwnedBy(actorID) && role != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("Access denied")
	}

	result := []BookingDTO{toBookingDTO(bk)}
	if err := s.attachRelations(ctx, result, false); err != nil {
		return nil, err
	}
	return &result[0], nil
}

// MyBookings groups the caller's bookings into upcoming, past, cancelled and
// pending. A booking can appear in more than one group.
func (s *BookingService) MyBookings(ctx context.Context, userID uuid.UUID, status string) (*CategorizedBookings, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	if err := s.attachRelations(ctx, dtos, false); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := &CategorizedBookings{
		Upcoming:  []BookingDTO{},
		Past:      []BookingDTO{},
		Cancelled: []BookingDTO{},
		Pending:   []BookingDTO{},
	}
	for _, b := range dtos {
		status := bookingDomain.BookingStatus(b.Status)
		if status == bookingDomain.StatusConfirmed && b.CheckIn.After(now) {
			out.Upcoming = append(out.Upcoming, b)
		}
		if status == bookingDomain.StatusCompleted || b.CheckOut.Before(now) {
			out.Past = append(out.Past, b)
		}
		if status == bookingDomain.StatusCancelled {
			out.Cancelled = append(out.Cancelled, b)
		}
		if status == bookingDomain.StatusPendingPayment {
			out.Pending = append(out.Pending, b)
		}
	}
	return out, nil
}

// ListBookings returns one page of all bookings, optionally filtered by status (admin).
func (s *BookingService) ListBookings(ctx context.Context, status string, page domain.Page) (*BookingList, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	bookings, total, err := s.bookings.List(ctx, bookingDomain.ListFilter{Status: filter}, page.Page, page.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	if err := s.attachRelations(ctx, dtos, true); err != nil {
		return nil, err
	}
	return &BookingList{Bookings: dtos, Pagination: domain.NewPagination(total, page)}, nil
}

// UpdateStatus applies an admin override. Status changes go through the
// booking state machine; the payment status may be set freely.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, req UpdateBookingStatusRequest) (*BookingDTO, error) {
	if req.Status == "" && req.PaymentStatus == "" {
		return nil, domain.NewValidationError("status or paymentStatus is required")
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	previous := bk.Status()
	if req.Status != "" {
		target, err := bookingDomain.ParseBookingStatus(req.Status)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("Invalid status: %s", req.Status))
		}
		if err := bk.TransitionTo(target); err != nil {
			return nil, err
		}
	}
	if req.PaymentStatus != "" {
		ps, err := bookingDomain.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("Invalid paymentStatus: %s", req.PaymentStatus))
		}
		if err := bk.SetPaymentStatus(ps); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, bk); err != nil {
		return nil, err
	}

	s.events.publishBooking(ctx, transitionEvent(previous, bk.Status()), bk, actorID)

	result := []BookingDTO{toBookingDTO(bk)}
	if err := s.attachRelations(ctx, result, true); err != nil {
		s.logger.Warn("failed to load booking relations", zap.Error(err))
	}
	return &result[0], nil
}

// ConfirmPayment confirms a pending booking after a successful payment.
// Confirming an already confirmed booking is a no-op.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if bk.Status() == bookingDomain.StatusConfirmed {
		return nil
	}
	if err := bk.Confirm(); err != nil {
		return err
	}
	if err := s.save(ctx, bk); err != nil {
		return err
	}
	s.events.publishBooking(ctx, messaging.BookingConfirmed, bk, uuid.Nil)
	return nil
}

// FailPayment records a failed payment and releases the booking's rooms.
func (s *BookingService) FailPayment(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if bk.Status() == bookingDomain.StatusCancelled && bk.PaymentStatus() == bookingDomain.PaymentFailed {
		return nil
	}

	previous := bk.Status()
	if previous != bookingDomain.StatusCancelled {
		if err := bk.Cancel(); err != nil {
			return err
		}
	}
	if err := bk.SetPaymentStatus(bookingDomain.PaymentFailed); err != nil {
		return err
	}
	if err := s.save(ctx, bk); err != nil {
		return err
	}
	s.events.publishBooking(ctx, transitionEvent(previous, bk.Status()), bk, uuid.Nil)
	return nil
}

// RefundPayment marks the booking's payment as refunded.
func (s *BookingService) RefundPayment(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if bk.PaymentStatus() == bookingDomain.PaymentRefunded {
		return nil
	}
	if err := bk.SetPaymentStatus(bookingDomain.PaymentRefunded); err != nil {
		return err
	}
	if err := s.save(ctx, bk); err != nil {
		return err
	}
	s.events.publishBooking(ctx, messaging.BookingStatusUpdated, bk, uuid.Nil)
	return nil
}

// CompleteFinishedStays marks confirmed bookings whose check-out has passed as
// completed and returns how many were completed.
func (s *BookingService) CompleteFinishedStays(ctx context.Context) (int, error) {
	completed := 0
	for {
		batch, err := s.bookings.FindEndedConfirmed(ctx, s.now().UTC(), completionBatch)
		if err != nil {
			return completed, err
		}

		progressed := 0
		for _, bk := range batch {
			if err := bk.Complete(); err != nil {
				s.logger.Warn("skipping booking completion", zap.String("booking_id", bk.ID().String()), zap.Error(err))
				continue
			}
			if err := s.save(ctx, bk); err != nil {
				if domain.KindOf(err) == domain.KindConflict {
					s.logger.Warn("booking changed during completion", zap.String("booking_id", bk.ID().String()))
					continue
				}
				return completed, err
			}
			s.events.publishBooking(ctx, messaging.BookingCompleted, bk, uuid.Nil)
			progressed++
		}
		completed += progressed

		if len(batch) < completionBatch || progressed == 0 {
			return completed, nil
		}
	}
}

// --- Helpers ---

func (s *BookingService) save(ctx context.Context, bk *bookingDomain.Booking) error {
	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return err
	}
	s.metrics.BookingTransitions.WithLabelValues(string(bk.Status())).Inc()
	return nil
}

// attachRelations fills hotel and room summaries (and users when withUser is set).
func (s *BookingService) attachRelations(ctx context.Context, dtos []BookingDTO, withUser bool) error {
	if len(dtos) == 0 {
		return nil
	}
	hotelIDs := make([]uuid.UUID, 0, len(dtos))
	roomIDs := make([]uuid.UUID, 0, len(dtos))
	userIDs := make([]uuid.UUID, 0, len(dtos))
	for _, d := range dtos {
		hotelIDs = append(hotelIDs, d.HotelID)
		roomIDs = append(roomIDs, d.RoomID)
		userIDs = append(userIDs, d.UserID)
	}

	hotels, err := s.hotels.FindByIDs(ctx, uniqueIDs(hotelIDs))
	if err != nil {
		return err
	}
	rooms, err := s.rooms.FindByIDs(ctx, uniqueIDs(roomIDs))
	if err != nil {
		return err
	}
	var users map[uuid.UUID]*userDomain.User
	if withUser {
		if users, err = s.users.FindByIDs(ctx, uniqueIDs(userIDs)); err != nil {
			return err
		}
	}

	for i := range dtos {
		dtos[i].Hotel = toHotelSummary(hotels[dtos[i].HotelID])
		dtos[i].Room = toRoomSummary(rooms[dtos[i].RoomID])
		if withUser {
			dtos[i].User = toUserSummary(users[dtos[i].UserID], true)
		}
	}
	return nil
}

func parseStatusFilter(status string) (*bookingDomain.BookingStatus, error) {
	if status == "" {
		return nil, nil
	}
	st, err := bookingDomain.ParseBookingStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("Invalid status: %s", status))
	}
	return &st, nil
}

func transitionEvent(from, to bookingDomain.BookingStatus) string {
	if from == to {
		return messaging.BookingStatusUpdated
	}
	switch to {
	case bookingDomain.StatusConfirmed:
		return messaging.BookingConfirmed
	case bookingDomain.StatusCancelled:
		return messaging.BookingCancelled
	case bookingDomain.StatusCompleted:
		return messaging.BookingCompleted
	default:
		return messaging.BookingStatusUpdated
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IsRetryable reports whether err is worth retrying: infrastructure failures
// and optimistic-lock conflicts. Other domain errors never succeed on retry.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	kind := domain.KindOf(err)
	return kind == 0 || kind == domain.KindConflict
}
