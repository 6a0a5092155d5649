package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

const recentBookingsLimit = 10

// StatsDTO holds the admin dashboard figures.
type StatsDTO struct {
	TotalHotels    int64        `json:"totalHotels"`
	TotalBookings  int64        `json:"totalBookings"`
	TotalRevenue   float64      `json:"totalRevenue"`
	TotalUsers     int64        `json:"totalUsers"`
	RecentBookings []BookingDTO `json:"recentBookings"`
}

// AdminService computes dashboard statistics.
type AdminService struct {
	hotels   hotelDomain.HotelRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	relate   *BookingService
}

// NewAdminService creates a new AdminService. The booking service is used to
// attach hotel, room and user summaries to recent bookings.
func NewAdminService(
	hotels hotelDomain.HotelRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	bookingService *BookingService,
) *AdminService {
	return &AdminService{hotels: hotels, bookings: bookings, users: users, relate: bookingService}
}

// Stats runs the dashboard queries concurrently.
func (s *AdminService) Stats(ctx context.Context) (*StatsDTO, error) {
	var (
		stats  StatsDTO
		recent []*bookingDomain.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.hotels.Count(gctx)
		stats.TotalHotels = n
		return err
	})
	g.Go(func() error {
		n, err := s.bookings.Count(gctx)
		stats.TotalBookings = n
		return err
	})
	g.Go(func() error {
		v, err := s.bookings.Revenue(gctx)
		stats.TotalRevenue = v
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountByRole(gctx, userDomain.RoleUser)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.bookings.Recent(gctx, recentBookingsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RecentBookings = make([]BookingDTO, len(recent))
	for i, bk := range recent {
		stats.RecentBookings[i] = toBookingDTO(bk)
	}
	if err := s.relate.attachRelations(ctx, stats.RecentBookings, true); err != nil {
		return nil, err
	}
	return &stats, nil
}
