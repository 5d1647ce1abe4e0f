package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/scheduling-api/internal/config"
	"github.com/clinicdesk/scheduling-api/internal/handler"
	appointmentHandler "github.com/clinicdesk/scheduling-api/internal/handler/appointment"
	availabilityHandler "github.com/clinicdesk/scheduling-api/internal/handler/availability"
	roomHandler "github.com/clinicdesk/scheduling-api/internal/handler/room"
	scheduleHandler "github.com/clinicdesk/scheduling-api/internal/handler/schedule"
	timeoffHandler "github.com/clinicdesk/scheduling-api/internal/handler/timeoff"
	"github.com/clinicdesk/scheduling-api/internal/middleware"
	"github.com/clinicdesk/scheduling-api/internal/repository/postgres"
	"github.com/clinicdesk/scheduling-api/internal/router"
	appointmentService "github.com/clinicdesk/scheduling-api/internal/service/appointment"
	availabilityService "github.com/clinicdesk/scheduling-api/internal/service/availability"
	roomService "github.com/clinicdesk/scheduling-api/internal/service/room"
	scheduleService "github.com/clinicdesk/scheduling-api/internal/service/schedule"
	timeoffService "github.com/clinicdesk/scheduling-api/internal/service/timeoff"
	"github.com/clinicdesk/scheduling-api/pkg/auth"
	"github.com/clinicdesk/scheduling-api/pkg/logger"
	redisbroker "github.com/clinicdesk/scheduling-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	clinicRepo := postgres.NewClinicRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	specialistRepo := postgres.NewSpecialistRepository(db)
	timeOffRepo := postgres.NewTimeOffRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	scheduleResolver := scheduleService.NewResolver(clinicRepo, appLogger.ZL)
	timeoffSvc := timeoffService.NewService(timeOffRepo, specialistRepo, appLogger.ZL)
	roomSvc := roomService.NewService(roomRepo)
	availabilitySvc := availabilityService.NewService(
		roomRepo,
		appointmentRepo,
		scheduleResolver,
		timeoffSvc,
		cfg.Booking.SlotMinutes,
		cfg.Booking.MaxDuration(),
		appLogger.ZL,
	)
	appointmentSvc := appointmentService.NewService(appointmentRepo, scheduleResolver, timeoffSvc, broker, cfg.Booking, appLogger.ZL)

	jwtService := auth.NewJWTService(cfg.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	h := handler.NewHandler(db)
	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(appointmentSvc),
		availabilityHandler.NewHandler(availabilitySvc),
		roomHandler.NewHandler(roomSvc, availabilitySvc),
		scheduleHandler.NewHandler(scheduleResolver),
		timeoffHandler.NewHandler(timeoffSvc),
		h,
		router.Config{
			RateLimit:  100,
			RateBurst:  200,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.ZL.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.ZL.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.ZL.Info().Msg("server exited properly")
}
