package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/model"
)

type fakeAppointmentRepo struct {
	rows      map[uuid.UUID]*model.Appointment
	createErr error
	updateErr error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("appointment not found")
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.rows[a.ID]; !ok {
		return fmt.Errorf("appointment not found")
	}
	a.UpdatedAt = time.Now()
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.rows {
		if f.DoctorID != uuid.Nil && a.DoctorID != f.DoctorID {
			continue
		}
		if f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
			continue
		}
		if !f.From.IsZero() && a.ScheduledAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !a.ScheduledAt.Before(f.To) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.OrderDesc {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func containsStatus(set []model.AppointmentStatus, s model.AppointmentStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type fakeEmergencyRepo struct {
	rows map[uuid.UUID]*model.EmergencyBooking
}

func newFakeEmergencyRepo() *fakeEmergencyRepo {
	return &fakeEmergencyRepo{rows: make(map[uuid.UUID]*model.EmergencyBooking)}
}

func (r *fakeEmergencyRepo) Create(_ context.Context, b *model.EmergencyBooking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *fakeEmergencyRepo) Get(_ context.Context, id uuid.UUID) (*model.EmergencyBooking, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("emergency booking not found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeEmergencyRepo) Update(_ context.Context, b *model.EmergencyBooking) error {
	if _, ok := r.rows[b.ID]; !ok {
		return fmt.Errorf("emergency booking not found")
	}
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *fakeEmergencyRepo) List(_ context.Context, f *model.EmergencyFilters) ([]*model.EmergencyBooking, error) {
	var out []*model.EmergencyBooking
	for _, b := range r.rows {
		if f.DoctorID != uuid.Nil && b.DoctorID != f.DoctorID {
			continue
		}
		if f.PatientID != uuid.Nil && b.PatientID != f.PatientID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.OrderDesc {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out, nil
}

type fakeAssignmentRepo struct {
	rows      []*model.DoctorPatientAssignment
	createErr error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{}
}

func (r *fakeAssignmentRepo) Find(_ context.Context, doctorID, patientID uuid.UUID) (*model.DoctorPatientAssignment, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		a := r.rows[i]
		if a.DoctorID == doctorID && a.PatientID == patientID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *model.DoctorPatientAssignment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeAssignmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AssignmentStatus) error {
	for _, a := range r.rows {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return fmt.Errorf("assignment not found")
}

func (r *fakeAssignmentRepo) Get(_ context.Context, id uuid.UUID) (*model.DoctorPatientAssignment, error) {
	for _, a := range r.rows {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("assignment not found")
}

func (r *fakeAssignmentRepo) List(_ context.Context, f *model.AssignmentFilters) ([]*model.DoctorPatientAssignment, error) {
	var out []*model.DoctorPatientAssignment
	for _, a := range r.rows {
		if f.DoctorID != uuid.Nil && a.DoctorID != f.DoctorID {
			continue
		}
		if f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type sentNotification struct {
	Recipient uuid.UUID
	Title     string
	Message   string
	Type      model.NotificationType
	Link      string
}

// recordingNotifier captures dispatches; it never fails, matching the
// fire-and-forget contract.
type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID uuid.UUID, title, message string, ntype model.NotificationType, link string) {
	n.sent = append(n.sent, sentNotification{
		Recipient: recipientID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		Link:      link,
	})
}

func (n *recordingNotifier) List(_ context.Context, _ uuid.UUID, _ int) ([]*model.Notification, error) {
	return nil, nil
}

func (n *recordingNotifier) MarkRead(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (n *recordingNotifier) lastFor(recipient uuid.UUID) *sentNotification {
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Recipient == recipient {
			return &n.sent[i]
		}
	}
	return nil
}
