package postgres

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/carebridge/carebridge-api/pkg/metrics"
)

func TestObserveRecordsOperationLatency(t *testing.T) {
	m := metrics.NewMetrics("postgres_test")
	b := base{metrics: m}

	b.observe("appointments.create", time.Now().Add(-10*time.Millisecond))
	b.observe("appointments.create", time.Now().Add(-10*time.Millisecond))
	b.observe("outbox_events.mark_processed", time.Now())

	assert.Equal(t, 2, testutil.CollectAndCount(m.DatabaseLatency),
		"one series per operation label")
}

func TestObserveWithoutMetricsIsNoop(t *testing.T) {
	var b base
	assert.NotPanics(t, func() {
		b.observe("appointments.create", time.Now())
	})
}
