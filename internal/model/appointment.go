package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusRejected,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// appointmentTransitions is the single place legal status moves are defined.
// Time-based guards (a cancel must beat the appointment instant, a complete
// must follow it) live in the lifecycle engine, not here.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusApproved, AppointmentStatusRejected, AppointmentStatusCancelled},
	AppointmentStatusApproved:  {AppointmentStatusCancelled, AppointmentStatusCompleted},
	AppointmentStatusRejected:  {},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Appointment is a standard booking between one patient and one doctor.
// ScheduledAt is an absolute instant; "has it passed" is always answered by
// the clock service in the clinical zone.
type Appointment struct {
	Base
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID         uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	ScheduledAt      time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Reason           string            `db:"reason" json:"reason,omitempty"`
	DoctorNotes      string            `db:"doctor_notes" json:"doctor_notes,omitempty"`
	EmergencyDerived bool              `db:"emergency_derived" json:"emergency_derived"`
}

type CreateAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reason      string    `json:"reason" binding:"max=1000"`
}

type RespondAppointmentRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// ListScope selects a derived slice of a party's appointments.
type ListScope string

const (
	ScopeAll      ListScope = ""
	ScopeUpcoming ListScope = "upcoming"
	ScopeHistory  ListScope = "history"
	ScopeToday    ListScope = "today"
)

func (s ListScope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeUpcoming, ScopeHistory, ScopeToday:
		return true
	}
	return false
}

// AppointmentFilters shape the booking store query: by party, by status set,
// bounded by [From, To), ordered on scheduled_at.
type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Statuses  []AppointmentStatus
	From      time.Time
	To        time.Time
	OrderDesc bool
}
