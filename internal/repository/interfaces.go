package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository persists standard appointments. It owns no
	// business rules beyond query shaping.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	EmergencyRepository interface {
		Create(ctx context.Context, booking *model.EmergencyBooking) error
		Get(ctx context.Context, id uuid.UUID) (*model.EmergencyBooking, error)
		Update(ctx context.Context, booking *model.EmergencyBooking) error
		List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyBooking, error)
	}

	AssignmentRepository interface {
		// Find returns (nil, nil) when no row exists for the pair.
		Find(ctx context.Context, doctorID, patientID uuid.UUID) (*model.DoctorPatientAssignment, error)
		Create(ctx context.Context, assignment *model.DoctorPatientAssignment) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorPatientAssignment, error)
		List(ctx context.Context, filters *model.AssignmentFilters) ([]*model.DoctorPatientAssignment, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}

	MedicationRepository interface {
		Create(ctx context.Context, medication *model.Medication) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medication, error)
		Update(ctx context.Context, medication *model.Medication) error
		ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
	}
)
