package booking

import (
	"time"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/model"
)

// emergencyLead is how far out an approved emergency lands on the calendar.
const emergencyLead = time.Hour

// Eligibility predicates. Pure derivations over an appointment and the
// clock; the engine and the presentation layer share them so the gating
// rules live in exactly one place.

// CanCancel reports whether either party may still cancel.
func CanCancel(c clock.Clock, a *model.Appointment) bool {
	if a.Status != model.AppointmentStatusPending && a.Status != model.AppointmentStatusApproved {
		return false
	}
	return !c.HasPassed(a.ScheduledAt)
}

// CanProvideFeedback reports whether the patient may rate the visit.
func CanProvideFeedback(c clock.Clock, a *model.Appointment) bool {
	if a.Status != model.AppointmentStatusCompleted && a.Status != model.AppointmentStatusApproved {
		return false
	}
	return c.HasPassed(a.ScheduledAt)
}

// IsUpcoming reports whether the appointment still lies ahead.
func IsUpcoming(c clock.Clock, a *model.Appointment) bool {
	if a.Status != model.AppointmentStatusPending && a.Status != model.AppointmentStatusApproved {
		return false
	}
	return !c.HasPassed(a.ScheduledAt)
}

// IsHistory reports whether the appointment belongs in the history view:
// any terminal status, or approved with its instant behind us.
func IsHistory(c clock.Clock, a *model.Appointment) bool {
	switch a.Status {
	case model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, model.AppointmentStatusRejected:
		return true
	case model.AppointmentStatusApproved:
		return c.HasPassed(a.ScheduledAt)
	}
	return false
}
