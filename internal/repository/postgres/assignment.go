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

func (r *assignmentRepository) Find(ctx context.Context, doctorID, patientID uuid.UUID) (*model.DoctorPatientAssignment, error) {
	defer r.observe("assignments.find", time.Now())

	query := `
		SELECT id, doctor_id, patient_id, status, assigned_at, notes
		FROM doctor_patients
		WHERE doctor_id = $1 AND patient_id = $2
		ORDER BY assigned_at DESC
		LIMIT 1
	`
	var assignment model.DoctorPatientAssignment
	err := r.db.GetContext(ctx, &assignment, query, doctorID, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.DoctorPatientAssignment) error {
	defer r.observe("assignments.create", time.Now())

	query := `
		INSERT INTO doctor_patients (
			id, doctor_id, patient_id, status, assigned_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.DoctorID,
		assignment.PatientID,
		assignment.Status,
		assignment.AssignedAt,
		assignment.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) error {
	defer r.observe("assignments.update_status", time.Now())

	query := `UPDATE doctor_patients SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assignment not found")
	}

	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorPatientAssignment, error) {
	defer r.observe("assignments.get", time.Now())

	query := `
		SELECT id, doctor_id, patient_id, status, assigned_at, notes
		FROM doctor_patients
		WHERE id = $1
	`
	var assignment model.DoctorPatientAssignment
	err := r.db.GetContext(ctx, &assignment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assignment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, filters *model.AssignmentFilters) ([]*model.DoctorPatientAssignment, error) {
	defer r.observe("assignments.list", time.Now())

	query := `
		SELECT id, doctor_id, patient_id, status, assigned_at, notes
		FROM doctor_patients
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY assigned_at DESC"

	var assignments []*model.DoctorPatientAssignment
	err := r.db.SelectContext(ctx, &assignments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
