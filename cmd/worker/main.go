package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/carebridge-api/internal/config"
	"github.com/carebridge/carebridge-api/internal/repository/postgres"
	"github.com/carebridge/carebridge-api/pkg/logger"
	redisBroker "github.com/carebridge/carebridge-api/pkg/messaging/redis"
	"github.com/carebridge/carebridge-api/pkg/metrics"
	"github.com/carebridge/carebridge-api/pkg/worker"
)

// workerConfig is sourced from the environment; the worker runs headless in
// containers where a config file is more trouble than it is worth.
type workerConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"carebridge"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	PollIntervalSeconds int `envconfig:"OUTBOX_POLL_INTERVAL_SECONDS" default:"5"`
	BatchSize           int `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxRetries          int `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.RedisURL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	workerMetrics := metrics.NewMetrics("carebridge_worker")
	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db, workerMetrics),
		broker,
		logger.NewLogger(nil),
		workerMetrics,
		worker.Config{
			PollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
			BatchSize:    cfg.BatchSize,
			MaxRetries:   cfg.MaxRetries,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down worker...")
		cancel()
	}()

	if err := processor.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("worker stopped unexpectedly")
	}
	log.Info().Msg("worker exited properly")
}
