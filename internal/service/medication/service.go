package medication

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Service interface {
	Add(ctx context.Context, actor model.Actor, req *model.CreateMedicationRequest) (*model.Medication, error)
	Discontinue(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Medication, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error)
}

type service struct {
	repo  repository.MedicationRepository
	clock clock.Clock
}

func NewService(repo repository.MedicationRepository, clk clock.Clock) Service {
	return &service{repo: repo, clock: clk}
}

func (s *service) Add(ctx context.Context, actor model.Actor, req *model.CreateMedicationRequest) (*model.Medication, error) {
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, errors.NewValidation("end date is before start date")
	}

	med := &model.Medication{
		PatientID: actor.UserID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    req.EndDate == nil || !s.clock.HasPassed(*req.EndDate),
	}
	if err := s.repo.Create(ctx, med); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create medication: %w", err))
	}
	return med, nil
}

func (s *service) Discontinue(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Medication, error) {
	med, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("medication", err)
	}
	if !med.Active {
		return med, nil
	}

	now := s.clock.Now()
	med.Active = false
	med.EndDate = &now
	if err := s.repo.Update(ctx, med); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to discontinue medication: %w", err))
	}
	return med, nil
}

func (s *service) ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	meds, err := s.repo.ListForPatient(ctx, patientID, activeOnly)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return meds, nil
}
