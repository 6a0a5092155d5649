package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/database"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/logger"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/repository"
)

var hotelImages = []string{
	"https://images.pexels.com/photos/338504/pexels-photo-338504.jpeg",
	"https://images.pexels.com/photos/271624/pexels-photo-271624.jpeg",
	"https://images.pexels.com/photos/271619/pexels-photo-271619.jpeg",
	"https://images.pexels.com/photos/261102/pexels-photo-261102.jpeg",
	"https://images.pexels.com/photos/164595/pexels-photo-164595.jpeg",
}

var roomImages = []string{
	"https://images.pexels.com/photos/271618/pexels-photo-271618.jpeg",
	"https://images.pexels.com/photos/1743229/pexels-photo-1743229.jpeg",
}

var amenities = []string{
	"WiFi", "Pool", "Gym", "Spa", "Restaurant", "Bar",
	"Parking", "Room Service", "Air Conditioning", "Pet Friendly",
}

type seedHotel struct {
	name, city, address, description string
	lat, lng                         float64
}

var hotels = []seedHotel{
	{"Grand Plaza Hotel", "New York", "123 Broadway St, Manhattan, NY 10001",
		"Luxurious hotel in the heart of Manhattan with city views.", 40.7489, -73.9680},
	{"Oceanview Resort", "Miami", "456 Beach Blvd, Miami Beach, FL 33139",
		"Beachfront resort with direct ocean access.", 25.7907, -80.1300},
	{"Mountain Lodge", "Denver", "789 Summit Ave, Denver, CO 80202",
		"Mountain retreat with views of the Rockies.", 39.7392, -104.9903},
	{"Downtown Business Hotel", "Chicago", "321 Michigan Ave, Chicago, IL 60601",
		"Modern business hotel in downtown Chicago.", 41.8781, -87.6298},
	{"Historic Inn", "Boston", "234 Beacon St, Boston, MA 02116",
		"Historic inn with colonial-era architecture.", 42.3601, -71.0589},
	{"Waterfront Hotel", "Seattle", "111 Pike St, Seattle, WA 98101",
		"Waterfront hotel overlooking Puget Sound.", 47.6062, -122.3321},
}

var rooms = []hotelDomain.RoomDetails{
	{Name: "Standard Room", RoomType: "Standard", Capacity: 2, PricePerNight: 120, TotalRooms: 20,
		Description: "Standard room with queen bed."},
	{Name: "Deluxe Room", RoomType: "Deluxe", Capacity: 2, PricePerNight: 180, TotalRooms: 15,
		Description: "Deluxe room with king bed."},
	{Name: "Family Suite", RoomType: "Suite", Capacity: 4, PricePerNight: 280, TotalRooms: 10,
		Description: "Family suite with separate bedroom and living area."},
	{Name: "Executive Suite", RoomType: "Suite", Capacity: 2, PricePerNight: 350, TotalRooms: 5,
		Description: "Executive suite with premium amenities."},
}

type seeder struct {
	users    *repository.GormUserRepository
	hotels   *repository.GormHotelRepository
	rooms    *repository.GormRoomRepository
	bookings *repository.GormBookingRepository
	reviews  *repository.GormReviewRepository
	hasher   *auth.PasswordHasher
	log      *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := db.AutoMigrate(repository.AllModels()...); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	s := &seeder{
		users:    repository.NewGormUserRepository(db),
		hotels:   repository.NewGormHotelRepository(db),
		rooms:    repository.NewGormRoomRepository(db),
		bookings: repository.NewGormBookingRepository(db),
		reviews:  repository.NewGormReviewRepository(db),
		hasher:   auth.NewPasswordHasher(cfg.JWTConfig.BcryptCost),
		log:      log,
	}
	if err := s.run(context.Background()); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func (s *seeder) run(ctx context.Context) error {
	if _, err := s.user(ctx, "Admin User", "admin@hotel.com", "+1234567890", "admin123", true); err != nil {
		return err
	}
	john, err := s.user(ctx, "John Doe", "john@example.com", "+1234567891", "user123", false)
	if err != nil {
		return err
	}
	jane, err := s.user(ctx, "Jane Smith", "jane@example.com", "+1234567892", "user123", false)
	if err != nil {
		return err
	}

	existing, err := s.hotels.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		s.log.Info("hotels already present, skipping catalog", zap.Int64("hotels", existing))
		return nil
	}

	var created [][]*hotelDomain.Room
	var seeded []*hotelDomain.Hotel
	for i, sh := range hotels {
		lat, lng := sh.lat, sh.lng
		h, err := hotelDomain.NewHotel(hotelDomain.HotelDetails{
			Name:        sh.name,
			City:        sh.city,
			Address:     sh.address,
			Description: sh.description,
			Latitude:    &lat,
			Longitude:   &lng,
			MainImage:   hotelImages[i%len(hotelImages)],
			Images: []string{
				hotelImages[(i+1)%len(hotelImages)],
				hotelImages[(i+2)%len(hotelImages)],
			},
			Amenities: amenities[:6+i%4],
		})
		if err != nil {
			return err
		}
		if err := s.hotels.Save(ctx, h); err != nil {
			return err
		}

		var hotelRooms []*hotelDomain.Room
		for _, rd := range rooms {
			rd.PricePerNight += float64(i * 10)
			rd.Images = roomImages
			room, err := hotelDomain.NewRoom(h.ID(), rd)
			if err != nil {
				return err
			}
			if err := s.rooms.Save(ctx, room); err != nil {
				return err
			}
			hotelRooms = append(hotelRooms, room)
		}
		created = append(created, hotelRooms)
		seeded = append(seeded, h)
		s.log.Info("created hotel", zap.String("name", sh.name))
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	day := 24 * time.Hour

	// An upcoming confirmed stay for John.
	upcoming, err := s.book(ctx, john, seeded[0], created[0][0], now.Add(5*day), now.Add(8*day))
	if err != nil {
		return err
	}
	if err := upcoming.Confirm(); err != nil {
		return err
	}
	if err := s.save(ctx, upcoming); err != nil {
		return err
	}

	// A concluded stay and review for Jane.
	past, err := s.book(ctx, jane, seeded[1], created[1][1], now.Add(-10*day), now.Add(-8*day))
	if err != nil {
		return err
	}
	if err := past.Confirm(); err != nil {
		return err
	}
	if err := past.Complete(); err != nil {
		return err
	}
	if err := s.save(ctx, past); err != nil {
		return err
	}

	rv, err := reviewDomain.NewReview(seeded[1].ID(), jane.ID(), 5, "Amazing stay! The ocean view was spectacular.")
	if err != nil {
		return err
	}
	if err := s.reviews.Save(ctx, rv); err != nil {
		return err
	}
	avg, err := s.reviews.AverageRating(ctx, seeded[1].ID())
	if err != nil {
		return err
	}
	if err := s.hotels.UpdateRating(ctx, seeded[1].ID(), avg); err != nil {
		return err
	}

	s.log.Info("seed completed",
		zap.String("admin", "admin@hotel.com / admin123"),
		zap.String("user", "john@example.com / user123"),
	)
	return nil
}

// user returns the account for email, creating it when missing.
func (s *seeder) user(ctx context.Context, name, email, phone, password string, admin bool) (*userDomain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err = userDomain.NewUser(name, email, phone, hash)
	if err != nil {
		return nil, err
	}
	if admin {
		u.Promote()
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *seeder) book(ctx context.Context, u *userDomain.User, h *hotelDomain.Hotel, room *hotelDomain.Room, in, out time.Time) (*bookingDomain.Booking, error) {
	stay, err := bookingDomain.NewStayRange(in, out)
	if err != nil {
		return nil, err
	}
	r := bookingDomain.Reservation{
		UserID:     u.ID(),
		HotelID:    h.ID(),
		RoomID:     room.ID(),
		Stay:       stay,
		Guests:     2,
		RoomsCount: 1,
	}
	return s.bookings.Reserve(ctx, room.ID(), stay, r.Admit)
}

func (s *seeder) save(ctx context.Context, bk *bookingDomain.Booking) error {
	bk.IncrementVersion()
	return s.bookings.Update(ctx, bk)
}
