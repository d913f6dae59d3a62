package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/notification"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/messaging"
)

// DefaultPollInterval is how often the fallback path re-reads the store
// when the broker subscription cannot be established.
const DefaultPollInterval = 10 * time.Second

// Subscriber delivers a user's notifications as they happen. It prefers a
// broker subscription; when the broker is unreachable it degrades to
// polling the notification store, so the stream stays alive either way.
type Subscriber struct {
	broker        messaging.Broker
	notifications notification.Service
	logger        *logger.Logger
	pollInterval  time.Duration
}

func NewSubscriber(broker messaging.Broker, notifications notification.Service, logger *logger.Logger, pollInterval time.Duration) *Subscriber {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Subscriber{
		broker:        broker,
		notifications: notifications,
		logger:        logger,
		pollInterval:  pollInterval,
	}
}

// Stream returns a channel of notifications addressed to userID. The channel
// closes when ctx is cancelled.
func (s *Subscriber) Stream(ctx context.Context, userID uuid.UUID, channel string) <-chan *model.Notification {
	out := make(chan *model.Notification)

	messages, err := s.subscribe(ctx, channel)
	if err != nil {
		s.logger.Warn("broker subscription unavailable, falling back to polling",
			"channel", channel, "error", err.Error())
		go s.poll(ctx, userID, out)
		return out
	}

	go s.relay(ctx, userID, messages, out)
	return out
}

func (s *Subscriber) subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	if s.broker == nil {
		return nil, errors.New("no broker configured")
	}
	return s.broker.Subscribe(ctx, channel)
}

// relay filters the shared channel down to one recipient.
func (s *Subscriber) relay(ctx context.Context, userID uuid.UUID, in <-chan []byte, out chan<- *model.Notification) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-in:
			if !ok {
				return
			}
			n, err := decode(raw)
			if err != nil {
				s.logger.Error(err, "dropping undecodable broker message")
				continue
			}
			if n.RecipientID != userID {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}
}

// poll re-reads the store on a timer and forwards anything newer than what
// it has already sent.
func (s *Subscriber) poll(ctx context.Context, userID uuid.UUID, out chan<- *model.Notification) {
	defer close(out)

	var lastSeen time.Time
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notifications, err := s.notifications.List(ctx, userID, 50)
			if err != nil {
				s.logger.Error(err, "poll for notifications failed", "user_id", userID.String())
				continue
			}
			// Store order is newest first; walk backwards to emit oldest first.
			for i := len(notifications) - 1; i >= 0; i-- {
				n := notifications[i]
				if !n.CreatedAt.After(lastSeen) {
					continue
				}
				lastSeen = n.CreatedAt
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func decode(raw []byte) (*model.Notification, error) {
	var msg struct {
		Type    string             `json:"type"`
		Payload model.Notification `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	return &msg.Payload, nil
}
