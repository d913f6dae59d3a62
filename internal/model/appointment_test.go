package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{AppointmentStatusPending, AppointmentStatusApproved, true},
		{AppointmentStatusPending, AppointmentStatusRejected, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusApproved, AppointmentStatusCancelled, true},
		{AppointmentStatusApproved, AppointmentStatusCompleted, true},
		{AppointmentStatusApproved, AppointmentStatusRejected, false},
		{AppointmentStatusApproved, AppointmentStatusApproved, false},
		{AppointmentStatusRejected, AppointmentStatusApproved, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusApproved.IsTerminal())
	assert.True(t, AppointmentStatusRejected.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
}
