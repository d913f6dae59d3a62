package worker

import (
	"context"
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

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	retried   []uuid.UUID
	failed    []uuid.UUID
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.pending = append(r.pending, e)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeOutboxRepo) MarkRetry(_ context.Context, id uuid.UUID, _ string, _ time.Time) error {
	r.retried = append(r.retried, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, _ string) error {
	r.failed = append(r.failed, id)
	return nil
}

type fakeBroker struct {
	publishErr error
	published  []string
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker, maxRetries int) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, TimeFormat: time.RFC3339, Output: io.Discard})
	return NewOutboxProcessor(repo, broker, log, nil, Config{MaxRetries: maxRetries})
}

func event(retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  "notification.created",
		Payload:    []byte(`{"title":"test"}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retries,
	}
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event(0), event(0)}}
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker, 5)

	require.NoError(t, p.processBatch(context.Background()))

	assert.Len(t, repo.processed, 2)
	assert.Empty(t, repo.retried)
	assert.Equal(t, []string{NotificationsChannel, NotificationsChannel}, broker.published)
}

func TestPublishFailureSchedulesRetry(t *testing.T) {
	ev := event(0)
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{ev}}
	broker := &fakeBroker{publishErr: fmt.Errorf("broker down")}
	p := newTestProcessor(repo, broker, 5)

	require.NoError(t, p.processBatch(context.Background()))

	assert.Empty(t, repo.processed)
	assert.Equal(t, []uuid.UUID{ev.ID}, repo.retried)
	assert.Empty(t, repo.failed)
}

func TestExhaustedRetriesParkEventAsFailed(t *testing.T) {
	ev := event(4)
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{ev}}
	broker := &fakeBroker{publishErr: fmt.Errorf("broker down")}
	p := newTestProcessor(repo, broker, 5)

	require.NoError(t, p.processBatch(context.Background()))

	assert.Empty(t, repo.retried)
	assert.Equal(t, []uuid.UUID{ev.ID}, repo.failed)
}

func TestBackoffCaps(t *testing.T) {
	assert.Equal(t, time.Second, backoff(0))
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 8*time.Second, backoff(3))
	assert.Equal(t, time.Minute, backoff(10))
}
