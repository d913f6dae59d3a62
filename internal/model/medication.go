package model

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one entry in a patient's medication list.
type Medication struct {
	Base
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name      string     `db:"name" json:"name"`
	Dosage    string     `db:"dosage" json:"dosage"`
	Frequency string     `db:"frequency" json:"frequency"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
}

type CreateMedicationRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	Dosage    string     `json:"dosage" binding:"required,max=100"`
	Frequency string     `json:"frequency" binding:"required,max=100"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}
