package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appointmentRepo "clinicore/database/repository/appointment"
	noteRepo "clinicore/database/repository/notes"
	patientRepo "clinicore/database/repository/patient"
	"clinicore/models"
	"clinicore/services/scheduling"

	"go.uber.org/zap"
)

// Service manages the clinical notes written after appointments. At most one
// note exists per appointment.
type Service interface {
	Create(ctx context.Context, actor scheduling.Actor, note models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Note, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Note, error)
	Update(ctx context.Context, actor scheduling.Actor, id string, note models.Note) (*models.Note, error)
	Delete(ctx context.Context, actor scheduling.Actor, id string) error
}

// DefaultService implements Service over the note repository, resolving the
// appointment reference through the appointment repository.
type DefaultService struct {
	repo     noteRepo.NoteRepository
	appts    appointmentRepo.AppointmentRepository
	patients patientRepo.PatientRepository
}

// NewService returns the notes service. patients may be nil, which disables
// last-visit bookkeeping.
func NewService(repo noteRepo.NoteRepository, appts appointmentRepo.AppointmentRepository, patients patientRepo.PatientRepository) *DefaultService {
	return &DefaultService{repo: repo, appts: appts, patients: patients}
}

func validateNote(note models.Note) error {
	if strings.TrimSpace(note.TreatmentNotes) == "" {
		return scheduling.ValidationError{Field: "treatmentNotes", Reason: "must not be empty"}
	}
	switch note.Payment.Status {
	case "", "Paid", "Pending", "Partial":
	default:
		return scheduling.ValidationError{Field: "payment.status", Reason: "unknown payment status " + note.Payment.Status}
	}
	return nil
}

// Create attaches a clinical note to an appointment. The patient reference is
// taken from the appointment, not from the request.
func (s *DefaultService) Create(ctx context.Context, actor scheduling.Actor, note models.Note) (*models.Note, error) {
	if err := validateNote(note); err != nil {
		return nil, err
	}

	appt, err := s.appts.GetByID(ctx, note.AppointmentID)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "appointment", ID: note.AppointmentID}
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByAppointment(ctx, appt.ID); err == nil {
		return nil, scheduling.ConflictError{Reason: "appointment already has a note"}
	} else if !errors.Is(err, noteRepo.ErrNotFound) {
		return nil, err
	}

	note.PatientID = appt.PatientID
	if note.Payment.Status == "" {
		note.Payment.Status = "Pending"
	}
	if note.CreatedBy == "" {
		note.CreatedBy = actor.Name
	}

	id, err := s.repo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("create note failed: %w", err)
	}

	s.touchLastVisit(ctx, appt)
	return s.GetByID(ctx, id)
}

// touchLastVisit stamps the appointment date as the patient's last visit; a
// filed clinical note is the record that the visit happened. Best-effort.
func (s *DefaultService) touchLastVisit(ctx context.Context, appt *models.Appointment) {
	if s.patients == nil {
		return
	}
	visit, err := time.Parse("2006-01-02", appt.Date)
	if err != nil {
		return
	}

	patient, err := s.patients.GetByID(ctx, appt.PatientID)
	if err != nil {
		zap.L().Warn("last-visit lookup failed", zap.String("patientId", appt.PatientID), zap.Error(err))
		return
	}
	if patient.LastVisit != nil && !visit.After(*patient.LastVisit) {
		return
	}
	patient.LastVisit = &visit
	if err := s.patients.Update(ctx, *patient); err != nil {
		zap.L().Warn("last-visit update failed", zap.String("patientId", appt.PatientID), zap.Error(err))
	}
}

// GetByID returns a single note.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, noteRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "note", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetByAppointment returns the note attached to an appointment.
func (s *DefaultService) GetByAppointment(ctx context.Context, appointmentID string) (*models.Note, error) {
	note, err := s.repo.GetByAppointment(ctx, appointmentID)
	if errors.Is(err, noteRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "note", ID: appointmentID}
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListByPatient returns the patient's notes, newest first.
func (s *DefaultService) ListByPatient(ctx context.Context, patientID string) ([]models.Note, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Update replaces the note's content and payment state. The appointment and
// patient references are immutable.
func (s *DefaultService) Update(ctx context.Context, actor scheduling.Actor, id string, note models.Note) (*models.Note, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}

	existing.TreatmentNotes = note.TreatmentNotes
	existing.ReminderNotes = note.ReminderNotes
	if note.Payment.Status != "" || note.Payment.Amount != 0 {
		existing.Payment = note.Payment
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update note failed: %w", err)
	}
	return existing, nil
}

// Delete removes a note.
func (s *DefaultService) Delete(ctx context.Context, actor scheduling.Actor, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
