package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carebridge/carebridge-api/internal/model"
)

func (r *emergencyRepository) Create(ctx context.Context, booking *model.EmergencyBooking) error {
	defer r.observe("emergency_bookings.create", time.Now())

	query := `
		INSERT INTO emergency_bookings (
			id, patient_id, doctor_id, reason, urgency_level,
			contact_number, status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PatientID,
		booking.DoctorID,
		booking.Reason,
		booking.Urgency,
		booking.ContactNumber,
		booking.Status,
		booking.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emergency booking: %w", err)
	}
	return nil
}

func (r *emergencyRepository) Get(ctx context.Context, id uuid.UUID) (*model.EmergencyBooking, error) {
	defer r.observe("emergency_bookings.get", time.Now())

	query := `
		SELECT id, patient_id, doctor_id, reason, urgency_level,
			   contact_number, status, requested_at, responded_at,
			   scheduled_date, doctor_notes
		FROM emergency_bookings
		WHERE id = $1
	`
	var booking model.EmergencyBooking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("emergency booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency booking: %w", err)
	}
	return &booking, nil
}

func (r *emergencyRepository) Update(ctx context.Context, booking *model.EmergencyBooking) error {
	defer r.observe("emergency_bookings.update", time.Now())

	query := `
		UPDATE emergency_bookings
		SET status = $1, responded_at = $2, scheduled_date = $3, doctor_notes = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.RespondedAt,
		booking.ScheduledDate,
		booking.DoctorNotes,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update emergency booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("emergency booking not found")
	}

	return nil
}

func (r *emergencyRepository) List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyBooking, error) {
	defer r.observe("emergency_bookings.list", time.Now())

	query := `
		SELECT id, patient_id, doctor_id, reason, urgency_level,
			   contact_number, status, requested_at, responded_at,
			   scheduled_date, doctor_notes
		FROM emergency_bookings
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

	if len(filters.Statuses) > 0 {
		statuses := make([]string, len(filters.Statuses))
		for i, s := range filters.Statuses {
			statuses[i] = string(s)
		}
		query += fmt.Sprintf(" AND status = ANY($%d)", argCount)
		args = append(args, pq.Array(statuses))
		argCount++
	}

	if filters.OrderDesc {
		query += " ORDER BY requested_at DESC"
	} else {
		query += " ORDER BY requested_at ASC"
	}

	var bookings []*model.EmergencyBooking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergency bookings: %w", err)
	}
	return bookings, nil
}
