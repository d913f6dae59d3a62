package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/pkg/logger"
)

type fakeNotificationRepo struct {
	rows      []*model.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range r.rows {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, n := range r.rows {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification not found")
}

type fakeOutboxRepo struct {
	events    []*model.OutboxEvent
	createErr error
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error { return nil }

func (r *fakeOutboxRepo) MarkRetry(context.Context, uuid.UUID, string, time.Time) error { return nil }

func (r *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

func newTestService(repo *fakeNotificationRepo, outbox *fakeOutboxRepo) Service {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, TimeFormat: time.RFC3339, Output: io.Discard})
	return NewService(repo, outbox, log, nil)
}

func TestNotifyStoresRowAndEnqueuesEvent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)

	recipient := uuid.New()
	svc.Notify(context.Background(), recipient, "Appointment approved",
		"Your appointment on 02 Jan 2024 10:00:00 has been approved.",
		model.NotificationTypeAppointment, "/appointments/abc")

	require.Len(t, repo.rows, 1)
	assert.Equal(t, recipient, repo.rows[0].RecipientID)
	assert.False(t, repo.rows[0].Read)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, EventTypeNotification, outbox.events[0].EventType)

	var payload model.Notification
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, repo.rows[0].ID, payload.ID)
	assert.Equal(t, "Appointment approved", payload.Title)
}

func TestNotifySwallowsStoreFailure(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: fmt.Errorf("store down")}
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)

	// Must not panic or propagate anything.
	svc.Notify(context.Background(), uuid.New(), "t", "m", model.NotificationTypeSystem, "")

	assert.Empty(t, repo.rows)
	assert.Empty(t, outbox.events, "no event without a stored row")
}

func TestNotifySwallowsOutboxFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	outbox := &fakeOutboxRepo{createErr: fmt.Errorf("outbox down")}
	svc := newTestService(repo, outbox)

	svc.Notify(context.Background(), uuid.New(), "t", "m", model.NotificationTypeSystem, "")

	// The row survives; only the push fan-out is lost.
	assert.Len(t, repo.rows, 1)
	assert.Empty(t, outbox.events)
}

func TestListDefaultsLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, &fakeOutboxRepo{})

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		repo.rows = append(repo.rows, &model.Notification{ID: uuid.New(), RecipientID: userID})
	}

	out, err := svc.List(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo, &fakeOutboxRepo{})

	n := &model.Notification{ID: uuid.New(), RecipientID: uuid.New()}
	repo.rows = append(repo.rows, n)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID))
	assert.True(t, n.Read)
}
