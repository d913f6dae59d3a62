package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/pkg/metrics"
)

// base carries what every repository needs. Metrics may be nil in tests.
type base struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func (b *base) observe(operation string, start time.Time) {
	if b.metrics == nil {
		return
	}
	b.metrics.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

type appointmentRepository struct {
	base
}

type emergencyRepository struct {
	base
}

type assignmentRepository struct {
	base
}

type notificationRepository struct {
	base
}

type outboxRepository struct {
	base
}

type medicationRepository struct {
	base
}

type medicalRecordRepository struct {
	base
}

type prescriptionRepository struct {
	base
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{base{db: db, metrics: m}}
}

func NewEmergencyRepository(db *sqlx.DB, m *metrics.Metrics) repository.EmergencyRepository {
	return &emergencyRepository{base{db: db, metrics: m}}
}

func NewAssignmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AssignmentRepository {
	return &assignmentRepository{base{db: db, metrics: m}}
}

func NewNotificationRepository(db *sqlx.DB, m *metrics.Metrics) repository.NotificationRepository {
	return &notificationRepository{base{db: db, metrics: m}}
}

func NewOutboxRepository(db *sqlx.DB, m *metrics.Metrics) repository.OutboxRepository {
	return &outboxRepository{base{db: db, metrics: m}}
}

func NewMedicationRepository(db *sqlx.DB, m *metrics.Metrics) repository.MedicationRepository {
	return &medicationRepository{base{db: db, metrics: m}}
}

func NewMedicalRecordRepository(db *sqlx.DB, m *metrics.Metrics) repository.MedicalRecordRepository {
	return &medicalRecordRepository{base{db: db, metrics: m}}
}

func NewPrescriptionRepository(db *sqlx.DB, m *metrics.Metrics) repository.PrescriptionRepository {
	return &prescriptionRepository{base{db: db, metrics: m}}
}
