package record

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

// Service manages chart entries. Only doctors write; the patient is told
// when something new lands on their chart.
type Service interface {
	Create(ctx context.Context, actor model.Actor, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
}

type service struct {
	repo     repository.MedicalRecordRepository
	notifier notification.Service
	clock    clock.Clock
}

func NewService(repo repository.MedicalRecordRepository, notifier notification.Service, clk clock.Clock) Service {
	return &service{repo: repo, notifier: notifier, clock: clk}
}

func (s *service) Create(ctx context.Context, actor model.Actor, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if actor.Role != model.RoleDoctor {
		return nil, errors.NewUnauthorized("only doctors can create medical records")
	}

	rec := &model.MedicalRecord{
		PatientID:   req.PatientID,
		DoctorID:    actor.UserID,
		Title:       req.Title,
		RecordType:  req.RecordType,
		Description: req.Description,
		RecordedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create medical record: %w", err))
	}

	s.notifier.Notify(ctx, rec.PatientID,
		"New medical record",
		fmt.Sprintf("A new %s record has been added to your chart.", rec.RecordType),
		model.NotificationTypeSystem,
		"/records/"+rec.ID.String(),
	)

	return rec, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("medical record", err)
	}
	return rec, nil
}

func (s *service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}
