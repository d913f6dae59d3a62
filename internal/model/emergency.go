package model

import (
	"time"

	"github.com/google/uuid"
)

// UrgencyLevel has exactly two canonical values. Legacy rows may still carry
// "low"/"medium"; NormalizeUrgency collapses those before any write or match.
type UrgencyLevel string

const (
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// NormalizeUrgency maps any input onto the canonical tiers. Only the exact
// value "critical" stays critical; everything else, including legacy "low",
// "medium" and empty input, becomes "high".
func NormalizeUrgency(raw string) UrgencyLevel {
	if UrgencyLevel(raw) == UrgencyCritical {
		return UrgencyCritical
	}
	return UrgencyHigh
}

type EmergencyStatus string

const (
	EmergencyStatusPending   EmergencyStatus = "pending"
	EmergencyStatusApproved  EmergencyStatus = "approved"
	EmergencyStatusRejected  EmergencyStatus = "rejected"
	EmergencyStatusCompleted EmergencyStatus = "completed"
)

func (s EmergencyStatus) IsValid() bool {
	switch s {
	case EmergencyStatusPending, EmergencyStatusApproved, EmergencyStatusRejected, EmergencyStatusCompleted:
		return true
	}
	return false
}

var emergencyTransitions = map[EmergencyStatus][]EmergencyStatus{
	EmergencyStatusPending:   {EmergencyStatusApproved, EmergencyStatusRejected},
	EmergencyStatusApproved:  {},
	EmergencyStatusRejected:  {},
	EmergencyStatusCompleted: {},
}

func (s EmergencyStatus) CanTransitionTo(next EmergencyStatus) bool {
	for _, allowed := range emergencyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EmergencyBooking is a patient's urgent request. Approval spawns an
// already-approved Appointment one hour out; the booking itself is then
// terminal.
type EmergencyBooking struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	PatientID     uuid.UUID       `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	Reason        string          `db:"reason" json:"reason"`
	Urgency       UrgencyLevel    `db:"urgency_level" json:"urgency_level"`
	ContactNumber string          `db:"contact_number" json:"contact_number"`
	Status        EmergencyStatus `db:"status" json:"status"`
	RequestedAt   time.Time       `db:"requested_at" json:"requested_at"`
	RespondedAt   *time.Time      `db:"responded_at" json:"responded_at,omitempty"`
	ScheduledDate *time.Time      `db:"scheduled_date" json:"scheduled_date,omitempty"`
	DoctorNotes   *string         `db:"doctor_notes" json:"doctor_notes,omitempty"`
}

type CreateEmergencyRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" binding:"required"`
	Reason        string    `json:"reason" binding:"required,max=2000"`
	Urgency       string    `json:"urgency_level"`
	ContactNumber string    `json:"contact_number" binding:"required,contact_number"`
}

type RespondEmergencyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes" binding:"max=1000"`
}

type EmergencyFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Statuses  []EmergencyStatus
	OrderDesc bool
}
