package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a dated entry a doctor attaches to a patient's chart.
type MedicalRecord struct {
	Base
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Title       string    `db:"title" json:"title"`
	RecordType  string    `db:"record_type" json:"record_type"`
	Description string    `db:"description" json:"description,omitempty"`
	RecordedAt  time.Time `db:"recorded_at" json:"recorded_at"`
}

type CreateMedicalRecordRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	Title       string    `json:"title" binding:"required,max=200"`
	RecordType  string    `json:"record_type" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=5000"`
}
