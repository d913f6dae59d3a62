package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/model"
)

func TestPredicates(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, clock.ClinicalZone)
	clk := clock.NewManual(now)

	apt := func(status model.AppointmentStatus, at time.Time) *model.Appointment {
		return &model.Appointment{Status: status, ScheduledAt: at}
	}
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name                 string
		a                    *model.Appointment
		cancel, feedback     bool
		upcoming, historical bool
	}{
		{"pending future", apt(model.AppointmentStatusPending, future), true, false, true, false},
		{"pending passed", apt(model.AppointmentStatusPending, past), false, false, false, false},
		{"approved future", apt(model.AppointmentStatusApproved, future), true, false, true, false},
		{"approved passed", apt(model.AppointmentStatusApproved, past), false, true, false, true},
		{"completed", apt(model.AppointmentStatusCompleted, past), false, true, false, true},
		{"cancelled", apt(model.AppointmentStatusCancelled, future), false, false, false, true},
		{"rejected", apt(model.AppointmentStatusRejected, future), false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cancel, CanCancel(clk, tt.a), "CanCancel")
			assert.Equal(t, tt.feedback, CanProvideFeedback(clk, tt.a), "CanProvideFeedback")
			assert.Equal(t, tt.upcoming, IsUpcoming(clk, tt.a), "IsUpcoming")
			assert.Equal(t, tt.historical, IsHistory(clk, tt.a), "IsHistory")
		})
	}
}

// An appointment booked for this exact instant has not passed, so it is
// still cancellable and not yet eligible for feedback.
func TestPredicatesAtTheExactInstant(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, clock.ClinicalZone)
	clk := clock.NewManual(now)
	a := &model.Appointment{Status: model.AppointmentStatusApproved, ScheduledAt: now}

	assert.True(t, CanCancel(clk, a))
	assert.False(t, CanProvideFeedback(clk, a))
	assert.True(t, IsUpcoming(clk, a))
	assert.False(t, IsHistory(clk, a))
}
