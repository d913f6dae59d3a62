package model

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is issued by a doctor for a patient, optionally tied to the
// appointment it came out of.
type Prescription struct {
	Base
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Medication    string     `db:"medication" json:"medication"`
	Dosage        string     `db:"dosage" json:"dosage"`
	Instructions  string     `db:"instructions" json:"instructions,omitempty"`
	IssuedAt      time.Time  `db:"issued_at" json:"issued_at"`
}

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Medication    string     `json:"medication" binding:"required,max=200"`
	Dosage        string     `json:"dosage" binding:"required,max=100"`
	Instructions  string     `json:"instructions" binding:"max=2000"`
}
