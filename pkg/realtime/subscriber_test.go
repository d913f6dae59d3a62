package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/messaging"
)

type stubBroker struct {
	ch           chan []byte
	subscribeErr error
}

func (b *stubBroker) Publish(context.Context, string, interface{}) error { return nil }

func (b *stubBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	if b.subscribeErr != nil {
		return nil, b.subscribeErr
	}
	return b.ch, nil
}

func (b *stubBroker) Close() error { return nil }

type stubNotificationService struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func (s *stubNotificationService) Notify(context.Context, uuid.UUID, string, string, model.NotificationType, string) {
}

func (s *stubNotificationService) List(_ context.Context, userID uuid.UUID, _ int) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for _, n := range s.notifications {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubNotificationService) add(n *model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]*model.Notification{n}, s.notifications...)
}

func (s *stubNotificationService) MarkRead(context.Context, uuid.UUID) error { return nil }

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, TimeFormat: time.RFC3339, Output: io.Discard})
}

func encode(t *testing.T, n *model.Notification) []byte {
	t.Helper()
	raw, err := json.Marshal(messaging.Message{Type: "notification.created", Payload: n})
	require.NoError(t, err)
	return raw
}

func receive(t *testing.T, ch <-chan *model.Notification) *model.Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return nil
	}
}

func TestStreamRelaysOnlyRecipientMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userID := uuid.New()
	broker := &stubBroker{ch: make(chan []byte, 2)}
	sub := NewSubscriber(broker, &stubNotificationService{}, testLogger(), 0)

	out := sub.Stream(ctx, userID, "notifications")

	other := &model.Notification{ID: uuid.New(), RecipientID: uuid.New(), Title: "not yours"}
	mine := &model.Notification{ID: uuid.New(), RecipientID: userID, Title: "Appointment approved"}
	broker.ch <- encode(t, other)
	broker.ch <- encode(t, mine)

	got := receive(t, out)
	assert.Equal(t, mine.ID, got.ID)
	assert.Equal(t, "Appointment approved", got.Title)
}

func TestStreamClosesWhenBrokerChannelCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := &stubBroker{ch: make(chan []byte)}
	sub := NewSubscriber(broker, &stubNotificationService{}, testLogger(), 0)

	out := sub.Stream(ctx, uuid.New(), "notifications")
	close(broker.ch)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "stream must close")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestStreamFallsBackToPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userID := uuid.New()
	store := &stubNotificationService{notifications: []*model.Notification{
		{ID: uuid.New(), RecipientID: userID, Title: "Appointment cancelled", CreatedAt: time.Now()},
	}}
	broker := &stubBroker{subscribeErr: fmt.Errorf("connection refused")}
	sub := NewSubscriber(broker, store, testLogger(), 20*time.Millisecond)

	out := sub.Stream(ctx, userID, "notifications")

	got := receive(t, out)
	assert.Equal(t, "Appointment cancelled", got.Title)
}

func TestPollingDoesNotRepeatDeliveredNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userID := uuid.New()
	first := &model.Notification{ID: uuid.New(), RecipientID: userID, Title: "first", CreatedAt: time.Now().Add(-time.Minute)}
	store := &stubNotificationService{notifications: []*model.Notification{first}}
	broker := &stubBroker{subscribeErr: fmt.Errorf("connection refused")}
	sub := NewSubscriber(broker, store, testLogger(), 20*time.Millisecond)

	out := sub.Stream(ctx, userID, "notifications")
	assert.Equal(t, first.ID, receive(t, out).ID)

	// Same store contents on the next tick: nothing new to deliver.
	select {
	case n := <-out:
		t.Fatalf("unexpected repeat delivery: %s", n.Title)
	case <-time.After(100 * time.Millisecond):
	}

	// A newer row does come through.
	second := &model.Notification{ID: uuid.New(), RecipientID: userID, Title: "second", CreatedAt: time.Now()}
	store.add(second)
	assert.Equal(t, second.ID, receive(t, out).ID)
}
