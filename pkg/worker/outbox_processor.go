package worker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/messaging"
	"github.com/carebridge/carebridge-api/pkg/metrics"
)

// NotificationsChannel is the broker channel realtime subscribers listen on.
const NotificationsChannel = "notifications"

// OutboxProcessor drains pending outbox events and publishes them to the
// broker. Events that fail to publish are retried with exponential backoff
// up to MaxRetries, then parked as failed.
type OutboxProcessor struct {
	outbox  repository.OutboxRepository
	broker  messaging.Broker
	logger  *logger.Logger
	metrics *metrics.Metrics

	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

func NewOutboxProcessor(
	outbox repository.OutboxRepository,
	broker messaging.Broker,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	cfg Config,
) *OutboxProcessor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	return &OutboxProcessor{
		outbox:       outbox,
		broker:       broker,
		logger:       logger,
		metrics:      metrics,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
	}
}

// Start blocks, draining the outbox on each tick until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started",
		"poll_interval", p.pollInterval.String(), "batch_size", p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.outbox.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}

	for _, event := range events {
		p.processEvent(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) {
	start := time.Now()
	err := p.broker.Publish(ctx, NotificationsChannel, messaging.Message{
		Type:    event.EventType,
		Payload: event.Payload,
	})
	if p.metrics != nil {
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
	}

	if err == nil {
		if err := p.outbox.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark event processed", "event_id", event.ID.String())
			return
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsProcessed.Inc()
		}
		return
	}

	p.logger.Error(err, "failed to publish event",
		"event_id", event.ID.String(), "event_type", event.EventType, "retry_count", event.RetryCount)

	if event.RetryCount+1 >= p.maxRetries {
		if err := p.outbox.MarkFailed(ctx, event.ID, err.Error()); err != nil {
			p.logger.Error(err, "failed to mark event failed", "event_id", event.ID.String())
		}
		if p.metrics != nil {
			p.metrics.OutboxEventsFailed.Inc()
		}
		return
	}

	retryAt := time.Now().Add(backoff(event.RetryCount))
	if err := p.outbox.MarkRetry(ctx, event.ID, err.Error(), retryAt); err != nil {
		p.logger.Error(err, "failed to mark event for retry", "event_id", event.ID.String())
		return
	}
	if p.metrics != nil {
		p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
	}
}

// backoff doubles per attempt starting at one second, capped at a minute.
func backoff(retryCount int) time.Duration {
	d := time.Duration(math.Pow(2, float64(retryCount))) * time.Second
	if d > time.Minute {
		return time.Minute
	}
	return d
}
