package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/internal/service/notification"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Service interface {
	Issue(ctx context.Context, actor model.Actor, req *model.CreatePrescriptionRequest) (*model.Prescription, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
}

type service struct {
	repo         repository.PrescriptionRepository
	appointments repository.AppointmentRepository
	notifier     notification.Service
	clock        clock.Clock
}

func NewService(
	repo repository.PrescriptionRepository,
	appointments repository.AppointmentRepository,
	notifier notification.Service,
	clk clock.Clock,
) Service {
	return &service{repo: repo, appointments: appointments, notifier: notifier, clock: clk}
}

// Issue writes a prescription. When tied to an appointment, the appointment
// must exist and belong to the same patient.
func (s *service) Issue(ctx context.Context, actor model.Actor, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if actor.Role != model.RoleDoctor {
		return nil, errors.NewUnauthorized("only doctors can issue prescriptions")
	}

	if req.AppointmentID != nil {
		apt, err := s.appointments.Get(ctx, *req.AppointmentID)
		if err != nil {
			return nil, errors.NewNotFound("appointment", err)
		}
		if apt.PatientID != req.PatientID {
			return nil, errors.NewValidation("appointment belongs to a different patient")
		}
	}

	p := &model.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      actor.UserID,
		AppointmentID: req.AppointmentID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Instructions:  req.Instructions,
		IssuedAt:      s.clock.Now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create prescription: %w", err))
	}

	s.notifier.Notify(ctx, p.PatientID,
		"New prescription",
		fmt.Sprintf("You have been prescribed %s (%s).", p.Medication, p.Dosage),
		model.NotificationTypePrescription,
		"/prescriptions/"+p.ID.String(),
	)

	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("prescription", err)
	}
	return p, nil
}

func (s *service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return prescriptions, nil
}

func (s *service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return prescriptions, nil
}
