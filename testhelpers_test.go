//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
	bookingEvents "github.com/limotraffics98-droid/Hotel-booking-system/internal/events"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Service         *application.BookingService
	Consumer        *bookingEvents.PaymentEventConsumer
	CleanupProducer func()
}

// catalog is a seeded user, hotel and room.
type catalog struct {
	UserID  uuid.UUID
	HotelID uuid.UUID
	RoomID  uuid.UUID
}

// setupPostgres starts a PostgreSQL testcontainer and returns a migrated GORM DB.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_hotel",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_hotel sslmode=disable TimeZone=UTC", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(repository.AllModels()...))

	return db, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, cleanupPG := setupPostgres(t)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, messaging.TopicBookingEvents, messaging.TopicPaymentEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		cleanupPG()
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// newBookingService wires a booking service over db publishing to publisher.
func newBookingService(db *gorm.DB, publisher messaging.Publisher, logger *zap.Logger) *application.BookingService {
	return application.NewBookingService(
		repository.NewGormBookingRepository(db),
		repository.NewGormHotelRepository(db),
		repository.NewGormRoomRepository(db),
		repository.NewGormUserRepository(db),
		publisher,
		metrics.NewMetrics("test", prometheus.NewRegistry()),
		logger,
	)
}

// setupBookingStack wires up the full booking service stack.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := messaging.NewKafkaProducer(brokers, logger)
	bookingSvc := newBookingService(db, producer, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewPaymentEventConsumer(brokers, groupID, bookingSvc, logger)

	return &bookingStack{
		Service:         bookingSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedCatalog inserts a guest, a hotel and a room with totalRooms units.
func seedCatalog(t *testing.T, db *gorm.DB, totalRooms int) catalog {
	t.Helper()
	ctx := context.Background()

	u, err := userDomain.NewUser("Test Guest", fmt.Sprintf("guest-%s@example.com", uuid.New().String()[:8]), "", "hash")
	require.NoError(t, err)
	require.NoError(t, repository.NewGormUserRepository(db).Save(ctx, u))

	h, err := hotelDomain.NewHotel(hotelDomain.HotelDetails{
		Name:        "Integration Hotel",
		City:        "Lisbon",
		Address:     "1 Test Street",
		Description: "integration test",
		Amenities:   []string{"WiFi"},
	})
	require.NoError(t, err)
	require.NoError(t, repository.NewGormHotelRepository(db).Save(ctx, h))

	room, err := hotelDomain.NewRoom(h.ID(), hotelDomain.RoomDetails{
		Name:          "Standard Room",
		RoomType:      "Standard",
		Capacity:      2,
		PricePerNight: 100,
		TotalRooms:    totalRooms,
	})
	require.NoError(t, err)
	require.NoError(t, repository.NewGormRoomRepository(db).Save(ctx, room))

	return catalog{UserID: u.ID(), HotelID: h.ID(), RoomID: room.ID()}
}

// bookingRequest builds a request for nights nights starting daysAhead days from now.
func bookingRequest(c catalog, daysAhead, nights, rooms int) application.CreateBookingRequest {
	in := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, daysAhead)
	return application.CreateBookingRequest{
		HotelID:    c.HotelID.String(),
		RoomID:     c.RoomID.String(),
		CheckIn:    in.Format("2006-01-02"),
		CheckOut:   in.AddDate(0, 0, nights).Format("2006-01-02"),
		Guests:     1,
		RoomsCount: rooms,
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := messaging.NewKafkaProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := messaging.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) messaging.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := messaging.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
