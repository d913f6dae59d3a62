package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/repository"
	"github.com/carebridge/carebridge-api/internal/service/notification"
	"github.com/carebridge/carebridge-api/pkg/errors"
	"github.com/carebridge/carebridge-api/pkg/logger"
	"github.com/carebridge/carebridge-api/pkg/metrics"
)

// Service is the booking lifecycle engine. All commands take the caller as
// an explicit Actor; authorization happened upstream and is trusted here.
//
// Cross-store sequences (approve appointment then ensure assignment, approve
// emergency then synthesize appointment) are sequential writes: the first
// status flip is authoritative once written, and a secondary failure is
// surfaced as a dependency error so the caller can retry just that step.
type Service struct {
	appointments repository.AppointmentRepository
	emergencies  repository.EmergencyRepository
	assignments  repository.AssignmentRepository
	notifier     notification.Service
	clock        clock.Clock
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	emergencies repository.EmergencyRepository,
	assignments repository.AssignmentRepository,
	notifier notification.Service,
	clk clock.Clock,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		emergencies:  emergencies,
		assignments:  assignments,
		notifier:     notifier,
		clock:        clk,
		logger:       logger,
		metrics:      metrics,
	}
}

func (s *Service) observe(command string, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.BookingCommands.WithLabelValues(command, status).Inc()
}

// RequestAppointment inserts a pending appointment for the calling patient.
// The instant is re-validated server-side: a request for a passed time is
// rejected no matter what the client's slot picker allowed.
func (s *Service) RequestAppointment(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (apt *model.Appointment, err error) {
	defer func() { s.observe("request_appointment", err) }()

	if req.DoctorID == uuid.Nil {
		return nil, errors.NewValidation("doctor is required")
	}
	if s.clock.HasPassed(req.ScheduledAt) {
		return nil, errors.NewValidation("appointment time is in the past")
	}

	apt = &model.Appointment{
		PatientID:   actor.UserID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Status:      model.AppointmentStatusPending,
		Reason:      req.Reason,
	}
	if err = s.appointments.Create(ctx, apt); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create appointment: %w", err))
	}

	s.notifier.Notify(ctx, apt.DoctorID,
		"New appointment request",
		fmt.Sprintf("A new appointment has been requested for %s.", s.clock.Format(apt.ScheduledAt)),
		model.NotificationTypeAppointment,
		"/appointments/"+apt.ID.String(),
	)

	return apt, nil
}

// RespondToAppointment applies a doctor's approve/reject decision to a
// pending appointment. Approval also guarantees an active doctor-patient
// assignment; that write is a hard dependency, so its failure surfaces as a
// dependency error even though the approval itself is already committed.
func (s *Service) RespondToAppointment(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.RespondAppointmentRequest) (apt *model.Appointment, err error) {
	defer func() { s.observe("respond_appointment", err) }()

	decision := model.AppointmentStatus(req.Decision)
	if decision != model.AppointmentStatusApproved && decision != model.AppointmentStatusRejected {
		return nil, errors.NewValidation("decision must be approved or rejected")
	}

	apt, err = s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("appointment", err)
	}
	if !apt.Status.CanTransitionTo(decision) {
		return nil, errors.NewPrecondition(fmt.Sprintf("appointment is %s, not pending", apt.Status))
	}

	apt.Status = decision
	apt.DoctorNotes = req.Notes
	if err = s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to update appointment: %w", err))
	}

	if decision == model.AppointmentStatusApproved {
		if err = s.ensureAssignment(ctx, apt.DoctorID, apt.PatientID); err != nil {
			// The approval is committed; only the assignment needs a retry.
			s.logger.Error(err, "assignment write failed after approval",
				"appointment_id", apt.ID.String())
			return apt, errors.NewDependency("appointment approved but doctor-patient assignment failed", err)
		}
	}

	formatted := s.clock.Format(apt.ScheduledAt)
	if decision == model.AppointmentStatusApproved {
		s.notifier.Notify(ctx, apt.PatientID,
			"Appointment approved",
			fmt.Sprintf("Your appointment on %s has been approved.", formatted),
			model.NotificationTypeAppointment,
			"/appointments/"+apt.ID.String(),
		)
	} else {
		s.notifier.Notify(ctx, apt.PatientID,
			"Appointment rejected",
			fmt.Sprintf("Your appointment request for %s has been rejected.", formatted),
			model.NotificationTypeAppointment,
			"/appointments/"+apt.ID.String(),
		)
	}

	return apt, nil
}

// CancelAppointment cancels a pending or approved appointment whose instant
// has not yet passed. Either party may cancel; prior doctor notes are
// discarded. A passed appointment is a dead end that cancellation never
// touches.
func (s *Service) CancelAppointment(ctx context.Context, actor model.Actor, id uuid.UUID) (apt *model.Appointment, err error) {
	defer func() { s.observe("cancel_appointment", err) }()

	apt, err = s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("appointment", err)
	}
	if !apt.Status.CanTransitionTo(model.AppointmentStatusCancelled) {
		return nil, errors.NewPrecondition(fmt.Sprintf("appointment is %s and cannot be cancelled", apt.Status))
	}
	if s.clock.HasPassed(apt.ScheduledAt) {
		return nil, errors.NewPrecondition("cannot cancel a passed appointment")
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.DoctorNotes = ""
	if err = s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to cancel appointment: %w", err))
	}

	counterparty := apt.DoctorID
	if actor.Role == model.RoleDoctor {
		counterparty = apt.PatientID
	}
	s.notifier.Notify(ctx, counterparty,
		"Appointment cancelled",
		fmt.Sprintf("Your appointment on %s has been cancelled.", s.clock.Format(apt.ScheduledAt)),
		model.NotificationTypeAppointment,
		"/appointments/"+apt.ID.String(),
	)

	return apt, nil
}

// MarkCompleted flips an approved, passed appointment to completed. Calling
// it on an already-completed appointment is a no-op.
func (s *Service) MarkCompleted(ctx context.Context, actor model.Actor, id uuid.UUID) (apt *model.Appointment, err error) {
	defer func() { s.observe("mark_completed", err) }()

	apt, err = s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("appointment", err)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return apt, nil
	}
	if !apt.Status.CanTransitionTo(model.AppointmentStatusCompleted) {
		return nil, errors.NewPrecondition(fmt.Sprintf("appointment is %s and cannot be completed", apt.Status))
	}
	if !s.clock.HasPassed(apt.ScheduledAt) {
		return nil, errors.NewPrecondition("appointment has not occurred yet")
	}

	apt.Status = model.AppointmentStatusCompleted
	if err = s.appointments.Update(ctx, apt); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to complete appointment: %w", err))
	}
	return apt, nil
}

// RequestEmergencyBooking inserts a pending emergency booking. Urgency is
// normalized before the write; legacy values never reach the store.
func (s *Service) RequestEmergencyBooking(ctx context.Context, actor model.Actor, req *model.CreateEmergencyRequest) (booking *model.EmergencyBooking, err error) {
	defer func() { s.observe("request_emergency", err) }()

	if req.DoctorID == uuid.Nil {
		return nil, errors.NewValidation("doctor is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.NewValidation("reason is required")
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		return nil, errors.NewValidation("contact number is required")
	}

	booking = &model.EmergencyBooking{
		PatientID:     actor.UserID,
		DoctorID:      req.DoctorID,
		Reason:        req.Reason,
		Urgency:       model.NormalizeUrgency(req.Urgency),
		ContactNumber: req.ContactNumber,
		Status:        model.EmergencyStatusPending,
		RequestedAt:   s.clock.Now(),
	}
	if err = s.emergencies.Create(ctx, booking); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create emergency booking: %w", err))
	}

	s.notifier.Notify(ctx, booking.DoctorID,
		"URGENT: Emergency booking request",
		fmt.Sprintf("%s urgency emergency request: %s. Contact: %s",
			strings.ToUpper(string(booking.Urgency)), booking.Reason, booking.ContactNumber),
		model.NotificationTypeEmergency,
		"/emergencies/"+booking.ID.String(),
	)

	return booking, nil
}

// RespondToEmergencyBooking applies a doctor's decision to a pending
// emergency booking. Approval synthesizes an already-approved appointment
// one hour from now; if that second write fails the booking stays approved
// and the caller gets a dependency error so the synthesis can be retried.
func (s *Service) RespondToEmergencyBooking(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.RespondEmergencyRequest) (booking *model.EmergencyBooking, err error) {
	defer func() { s.observe("respond_emergency", err) }()

	decision := model.EmergencyStatus(req.Decision)
	if decision != model.EmergencyStatusApproved && decision != model.EmergencyStatusRejected {
		return nil, errors.NewValidation("decision must be approved or rejected")
	}

	booking, err = s.emergencies.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("emergency booking", err)
	}
	normalizeStoredUrgency(booking)
	if !booking.Status.CanTransitionTo(decision) {
		return nil, errors.NewPrecondition(fmt.Sprintf("emergency booking is %s, not pending", booking.Status))
	}

	now := s.clock.Now()
	booking.Status = decision
	booking.RespondedAt = &now
	booking.DoctorNotes = &req.Notes

	scheduledAt := now.Add(emergencyLead)
	if decision == model.EmergencyStatusApproved {
		booking.ScheduledDate = &scheduledAt
	}

	if err = s.emergencies.Update(ctx, booking); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to update emergency booking: %w", err))
	}

	if decision == model.EmergencyStatusApproved {
		apt := &model.Appointment{
			PatientID:   booking.PatientID,
			DoctorID:    booking.DoctorID,
			ScheduledAt: scheduledAt,
			Status:      model.AppointmentStatusApproved,
			Reason:      booking.Reason,
			DoctorNotes: fmt.Sprintf("Emergency - %s | Original Request: %s",
				strings.ToUpper(string(booking.Urgency)), booking.Reason),
			EmergencyDerived: true,
		}
		if err = s.appointments.Create(ctx, apt); err != nil {
			s.logger.Error(err, "appointment synthesis failed after emergency approval",
				"booking_id", booking.ID.String())
			return booking, errors.NewDependency("emergency booking approved but appointment creation failed", err)
		}

		s.notifier.Notify(ctx, booking.PatientID,
			"Emergency booking approved",
			fmt.Sprintf("Your emergency request has been approved. Your appointment is scheduled for %s.", s.clock.Format(scheduledAt)),
			model.NotificationTypeEmergency,
			"/appointments/"+apt.ID.String(),
		)
		return booking, nil
	}

	s.notifier.Notify(ctx, booking.PatientID,
		"Emergency booking rejected",
		"Your emergency request has been rejected.",
		model.NotificationTypeEmergency,
		"/emergencies/"+booking.ID.String(),
	)
	return booking, nil
}

// ensureAssignment guarantees exactly one active doctor-patient relation
// for the pair, idempotently: reuse an active row, reactivate an inactive
// one, insert only when nothing exists. The check-then-insert race window
// is an accepted limitation; the store carries no unique constraint.
func (s *Service) ensureAssignment(ctx context.Context, doctorID, patientID uuid.UUID) error {
	existing, err := s.assignments.Find(ctx, doctorID, patientID)
	if err != nil {
		return fmt.Errorf("failed to look up assignment: %w", err)
	}

	if existing != nil {
		if existing.Status == model.AssignmentStatusActive {
			return nil
		}
		if err := s.assignments.UpdateStatus(ctx, existing.ID, model.AssignmentStatusActive); err != nil {
			return fmt.Errorf("failed to reactivate assignment: %w", err)
		}
		return nil
	}

	now := s.clock.Now()
	assignment := &model.DoctorPatientAssignment{
		DoctorID:   doctorID,
		PatientID:  patientID,
		Status:     model.AssignmentStatusActive,
		AssignedAt: now,
		Notes:      fmt.Sprintf("Assigned via approved appointment on %s", s.clock.TodayDateKey()),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// DeactivateAssignment is the manual doctor action that ends a relation.
func (s *Service) DeactivateAssignment(ctx context.Context, actor model.Actor, id uuid.UUID) (err error) {
	defer func() { s.observe("deactivate_assignment", err) }()

	if _, err = s.assignments.Get(ctx, id); err != nil {
		return errors.NewNotFound("assignment", err)
	}
	if err = s.assignments.UpdateStatus(ctx, id, model.AssignmentStatusInactive); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func (s *Service) ListAssignments(ctx context.Context, filters *model.AssignmentFilters) ([]*model.DoctorPatientAssignment, error) {
	return s.assignments.List(ctx, filters)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) GetEmergencyBooking(ctx context.Context, id uuid.UUID) (*model.EmergencyBooking, error) {
	booking, err := s.emergencies.Get(ctx, id)
	if err != nil {
		return nil, errors.NewNotFound("emergency booking", err)
	}
	return normalizeStoredUrgency(booking), nil
}

// ListAppointments shapes the store query with the clock: "today" is the
// clinical-zone half-open day interval, "upcoming" and "history" apply the
// eligibility predicates after fetching the party's rows.
func (s *Service) ListAppointments(ctx context.Context, scope model.ListScope, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if !scope.IsValid() {
		return nil, errors.NewValidation("invalid list scope")
	}

	switch scope {
	case model.ScopeToday:
		filters.From, filters.To = s.clock.TodayRange()
	case model.ScopeUpcoming:
		filters.Statuses = []model.AppointmentStatus{
			model.AppointmentStatusPending, model.AppointmentStatusApproved,
		}
	case model.ScopeHistory:
		filters.OrderDesc = true
	}

	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	switch scope {
	case model.ScopeUpcoming:
		appointments = filterAppointments(appointments, func(a *model.Appointment) bool {
			return IsUpcoming(s.clock, a)
		})
	case model.ScopeHistory:
		appointments = filterAppointments(appointments, func(a *model.Appointment) bool {
			return IsHistory(s.clock, a)
		})
	}
	return appointments, nil
}

func (s *Service) ListEmergencyBookings(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyBooking, error) {
	bookings, err := s.emergencies.List(ctx, filters)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	for _, b := range bookings {
		normalizeStoredUrgency(b)
	}
	return bookings, nil
}

// normalizeStoredUrgency collapses legacy urgency tiers on rows coming out of
// the store. Writes normalize too, but rows older than the two-tier model may
// still carry "low" or "medium", and no consumer may ever see those.
func normalizeStoredUrgency(b *model.EmergencyBooking) *model.EmergencyBooking {
	b.Urgency = model.NormalizeUrgency(string(b.Urgency))
	return b
}

func filterAppointments(in []*model.Appointment, keep func(*model.Appointment) bool) []*model.Appointment {
	out := make([]*model.Appointment, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
