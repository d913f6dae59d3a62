package model

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusInactive AssignmentStatus = "inactive"
)

// DoctorPatientAssignment links a doctor to a patient. At most one active
// row should exist per pair; the engine checks before inserting rather than
// relying on a database constraint.
type DoctorPatientAssignment struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	DoctorID   uuid.UUID        `db:"doctor_id" json:"doctor_id"`
	PatientID  uuid.UUID        `db:"patient_id" json:"patient_id"`
	Status     AssignmentStatus `db:"status" json:"status"`
	AssignedAt time.Time        `db:"assigned_at" json:"assigned_at"`
	Notes      string           `db:"notes" json:"notes,omitempty"`
}

type AssignmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AssignmentStatus
}
