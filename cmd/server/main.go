package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/config"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/database"
	bookingEvents "github.com/limotraffics98-droid/Hotel-booking-system/internal/events"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/handler"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/health"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/logger"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/middleware"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/repository"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/worker"
)

const serviceName = "hotel-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting hotel-booking",
		zap.String("port", cfg.Port),
		zap.String("events_driver", cfg.Events.Driver),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.AllModels()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), cfg.DBConfig.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := connectRedis(cfg.RedisConfig, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("hotel_booking", registry)

	// Initialize event publisher
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal("failed to create event publisher", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	// Initialize JWT manager and password hasher
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.AccessSecret,
		cfg.JWTConfig.RefreshSecret,
		cfg.JWTConfig.AccessExpiry,
		cfg.JWTConfig.RefreshExpiry,
	)
	hasher := auth.NewPasswordHasher(cfg.JWTConfig.BcryptCost)

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	cache := middleware.NewResponseCache(cfg.Cache, rdb, log.Named("cache"))
	limiter := middleware.NewRateLimiter(cfg.RateLimit, rdb, m, log.Named("ratelimit"))

	// Initialize application services
	authService := application.NewAuthService(userRepo, jwtManager, hasher, log)
	hotelService := application.NewHotelService(hotelRepo, roomRepo, reviewRepo, userRepo, cache, log)
	bookingService := application.NewBookingService(bookingRepo, hotelRepo, roomRepo, userRepo, publisher, m, log)
	reviewService := application.NewReviewService(reviewRepo, hotelRepo, bookingRepo, userRepo, cache, log)
	adminService := application.NewAdminService(hotelRepo, bookingRepo, userRepo, bookingService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Payment events arrive over Kafka only.
	if cfg.Events.Driver == "kafka" {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		paymentConsumer := bookingEvents.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log.Named("payments"),
		)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer")
			if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	stayWorker := worker.NewStayCompletionWorker(bookingService, cfg.Worker.StayCompletionInterval, log.Named("worker"))
	go stayWorker.Start(ctx)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, rdb, registry, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register API routes
	api := router.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api, jwtManager, limiter.Middleware())
	handler.NewHotelHandler(hotelService, bookingService).RegisterRoutes(api, cache.Middleware())
	handler.NewReviewHandler(reviewService).RegisterRoutes(api, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(adminService, hotelService, bookingService).RegisterRoutes(api, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down hotel-booking...")

	// Stop the consumer and the worker
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("hotel-booking stopped")
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// cache is then disabled and the rate limiter runs in-process.
func connectRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info("redis not configured")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, continuing without it", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	log.Info("connected to redis", zap.String("addr", cfg.Addr))
	return rdb
}

func newPublisher(cfg *config.ServiceConfig, log *zap.Logger) (messaging.Publisher, error) {
	switch cfg.Events.Driver {
	case "kafka":
		return messaging.NewKafkaProducer(cfg.KafkaConfig.Brokers, log.Named("kafka")), nil
	case "rabbitmq":
		return messaging.NewRabbitPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, log.Named("rabbitmq"))
	default:
		return messaging.NopPublisher{}, nil
	}
}
