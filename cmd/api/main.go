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

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/config"
	"github.com/carebridge/carebridge-api/internal/handler"
	appointmentHandler "github.com/carebridge/carebridge-api/internal/handler/appointment"
	assignmentHandler "github.com/carebridge/carebridge-api/internal/handler/assignment"
	emergencyHandler "github.com/carebridge/carebridge-api/internal/handler/emergency"
	medicationHandler "github.com/carebridge/carebridge-api/internal/handler/medication"
	notificationHandler "github.com/carebridge/carebridge-api/internal/handler/notification"
	prescriptionHandler "github.com/carebridge/carebridge-api/internal/handler/prescription"
	recordHandler "github.com/carebridge/carebridge-api/internal/handler/record"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/repository/postgres"
	"github.com/carebridge/carebridge-api/internal/router"
	"github.com/carebridge/carebridge-api/internal/service/booking"
	medicationService "github.com/carebridge/carebridge-api/internal/service/medication"
	notificationService "github.com/carebridge/carebridge-api/internal/service/notification"
	prescriptionService "github.com/carebridge/carebridge-api/internal/service/prescription"
	recordService "github.com/carebridge/carebridge-api/internal/service/record"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/messaging"
	redisBroker "github.com/carebridge/carebridge-api/pkg/messaging/redis"
	"github.com/carebridge/carebridge-api/pkg/metrics"
	"github.com/carebridge/carebridge-api/pkg/realtime"
	"github.com/carebridge/carebridge-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("carebridge")
	clk := clock.NewSystem()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db, appMetrics)
	emergencyRepo := postgres.NewEmergencyRepository(db, appMetrics)
	assignmentRepo := postgres.NewAssignmentRepository(db, appMetrics)
	notificationRepo := postgres.NewNotificationRepository(db, appMetrics)
	outboxRepo := postgres.NewOutboxRepository(db, appMetrics)
	medicationRepo := postgres.NewMedicationRepository(db, appMetrics)
	recordRepo := postgres.NewMedicalRecordRepository(db, appMetrics)
	prescriptionRepo := postgres.NewPrescriptionRepository(db, appMetrics)

	notifier := notificationService.NewService(notificationRepo, outboxRepo, appLogger, appMetrics)
	bookingSvc := booking.NewService(appointmentRepo, emergencyRepo, assignmentRepo, notifier, clk, appLogger, appMetrics)
	medicationSvc := medicationService.NewService(medicationRepo, clk)
	recordSvc := recordService.NewService(recordRepo, notifier, clk)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, appointmentRepo, notifier, clk)

	// A broker outage must not block startup; the realtime layer degrades
	// to polling when broker is nil.
	var broker messaging.Broker
	if b, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger); err != nil {
		log.Warn().Err(err).Msg("broker unavailable, realtime falls back to polling")
	} else {
		broker = b
		defer broker.Close()
	}

	subscriber := realtime.NewSubscriber(broker, notifier, appLogger, cfg.Realtime.PollInterval())

	r := router.NewRouter(
		handler.NewHandler(db),
		appointmentHandler.NewHandler(bookingSvc, clk),
		emergencyHandler.NewHandler(bookingSvc),
		assignmentHandler.NewHandler(bookingSvc),
		notificationHandler.NewHandler(notifier, subscriber),
		medicationHandler.NewHandler(medicationSvc),
		recordHandler.NewHandler(recordSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		router.Config{
			RateLimit:  middleware.RateLimiterConfig{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
			CORSConfig: middleware.DefaultCORSConfig(),
			CacheTTL:   30 * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
