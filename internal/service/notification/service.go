package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/metrics"
)

// EventTypeNotification is the outbox event type the worker publishes to
// the broker's notifications channel.
const EventTypeNotification = "notification.created"

// Service is the fire-and-forget dispatcher. Notify never returns an error:
// a failed write here is logged and dropped, because delivery is a UX
// nicety and must never roll back the state change that triggered it.
type Service interface {
	Notify(ctx context.Context, recipientID uuid.UUID, title, message string, ntype model.NotificationType, link string)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    repository.NotificationRepository
	outbox  repository.OutboxRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, outbox repository.OutboxRepository, logger *logger.Logger, metrics *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		outbox:  outbox,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *service) Notify(ctx context.Context, recipientID uuid.UUID, title, message string, ntype model.NotificationType, link string) {
	notification := &model.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        ntype,
		Link:        link,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error(err, "failed to store notification",
			"recipient_id", recipientID.String(), "type", string(ntype))
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error(err, "failed to marshal notification payload",
			"notification_id", notification.ID.String())
		return
	}

	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: EventTypeNotification,
		Payload:   payload,
	}); err != nil {
		// The row exists; only the push fan-out is lost.
		s.logger.Error(err, "failed to enqueue notification event",
			"notification_id", notification.ID.String())
		return
	}

	if s.metrics != nil {
		s.metrics.NotificationsEnqueued.Inc()
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}
