package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/scheduling-api/internal/config"
	"github.com/clinicdesk/scheduling-api/internal/email"
	"github.com/clinicdesk/scheduling-api/internal/repository/postgres"
	"github.com/clinicdesk/scheduling-api/internal/worker"
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

	notifier := worker.NewNotifier(
		broker,
		email.NewSMTPService(cfg.SMTP),
		postgres.NewPatientRepository(db),
		appLogger.ZL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLogger.ZL.Info().Msg("shutting down notifier...")
		cancel()
	}()

	if err := notifier.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("notifier stopped")
	}

	appLogger.ZL.Info().Msg("notifier exited")
}
