package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/model"
)

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	defer r.observe("prescriptions.create", time.Now())

	query := `
		INSERT INTO prescriptions (
			id, patient_id, doctor_id, appointment_id, medication,
			dosage, instructions, issued_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.AppointmentID,
		prescription.Medication,
		prescription.Dosage,
		prescription.Instructions,
		prescription.IssuedAt,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	defer r.observe("prescriptions.get", time.Now())

	query := `
		SELECT id, patient_id, doctor_id, appointment_id, medication,
			   dosage, instructions, issued_at, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`
	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prescription not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	defer r.observe("prescriptions.list_for_patient", time.Now())

	query := `
		SELECT id, patient_id, doctor_id, appointment_id, medication,
			   dosage, instructions, issued_at, created_at, updated_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY issued_at DESC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	defer r.observe("prescriptions.list_for_doctor", time.Now())

	query := `
		SELECT id, patient_id, doctor_id, appointment_id, medication,
			   dosage, instructions, issued_at, created_at, updated_at
		FROM prescriptions
		WHERE doctor_id = $1
		ORDER BY issued_at DESC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}
