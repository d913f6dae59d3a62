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

func (r *medicationRepository) Create(ctx context.Context, medication *model.Medication) error {
	defer r.observe("medications.create", time.Now())

	query := `
		INSERT INTO medications (
			id, patient_id, name, dosage, frequency,
			start_date, end_date, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if medication.ID == uuid.Nil {
		medication.ID = uuid.New()
	}
	medication.CreatedAt = time.Now()
	medication.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		medication.ID,
		medication.PatientID,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		medication.StartDate,
		medication.EndDate,
		medication.Active,
		medication.CreatedAt,
		medication.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	defer r.observe("medications.get", time.Now())

	query := `
		SELECT id, patient_id, name, dosage, frequency,
			   start_date, end_date, active, created_at, updated_at
		FROM medications
		WHERE id = $1
	`
	var medication model.Medication
	err := r.db.GetContext(ctx, &medication, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("medication not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &medication, nil
}

func (r *medicationRepository) Update(ctx context.Context, medication *model.Medication) error {
	defer r.observe("medications.update", time.Now())

	query := `
		UPDATE medications
		SET name = $1, dosage = $2, frequency = $3,
			start_date = $4, end_date = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	medication.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		medication.StartDate,
		medication.EndDate,
		medication.Active,
		medication.UpdatedAt,
		medication.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("medication not found")
	}

	return nil
}

func (r *medicationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	defer r.observe("medications.list_for_patient", time.Now())

	query := `
		SELECT id, patient_id, name, dosage, frequency,
			   start_date, end_date, active, created_at, updated_at
		FROM medications
		WHERE patient_id = $1
	`
	args := []interface{}{patientID}
	if activeOnly {
		query += " AND active = true"
	}
	query += " ORDER BY start_date DESC"

	var medications []*model.Medication
	err := r.db.SelectContext(ctx, &medications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, nil
}
