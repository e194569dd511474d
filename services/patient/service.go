package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	patientRepo "clinicore/database/repository/patient"
	"clinicore/models"
	"clinicore/services/scheduling"
)

// Service manages patient records. Deletion is soft by default; HardDelete
// exists for the superadmin purge path only.
type Service interface {
	Create(ctx context.Context, actor scheduling.Actor, patient models.Patient) (*models.Patient, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Update(ctx context.Context, actor scheduling.Actor, id string, patient models.Patient) (*models.Patient, error)
	List(ctx context.Context, opts patientRepo.ListOptions) ([]models.Patient, int64, error)
	Deactivate(ctx context.Context, actor scheduling.Actor, id string) error
	Restore(ctx context.Context, actor scheduling.Actor, id string) error
	HardDelete(ctx context.Context, actor scheduling.Actor, id string) error

	AddCase(ctx context.Context, actor scheduling.Actor, patientID string, c models.Case) (*models.Patient, error)
	UpdateCaseStatus(ctx context.Context, actor scheduling.Actor, patientID, caseID, status string) (*models.Patient, error)
	AddCaseNote(ctx context.Context, actor scheduling.Actor, patientID, caseID string, note models.CaseNote) (*models.Patient, error)
	AddCasePayment(ctx context.Context, actor scheduling.Actor, patientID, caseID string, payment models.CasePayment) (*models.Patient, error)
}

// DefaultService implements Service over the patient repository.
type DefaultService struct {
	repo  patientRepo.PatientRepository
	audit scheduling.AuditRecorder
	clock scheduling.Clock
}

// NewService returns the patient service. audit may be nil.
func NewService(repo patientRepo.PatientRepository, audit scheduling.AuditRecorder, clock scheduling.Clock) *DefaultService {
	if clock == nil {
		clock = scheduling.SystemClock()
	}
	return &DefaultService{repo: repo, audit: audit, clock: clock}
}

// FindByID satisfies the scheduling engine's patient-lookup port.
func (s *DefaultService) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.GetByID(ctx, id)
}

func validatePatient(p models.Patient) error {
	if strings.TrimSpace(p.FirstName) == "" {
		return scheduling.ValidationError{Field: "firstName", Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.LastName) == "" {
		return scheduling.ValidationError{Field: "lastName", Reason: "must not be empty"}
	}
	if p.BirthDate.IsZero() {
		return scheduling.ValidationError{Field: "birthDate", Reason: "must be set"}
	}
	return nil
}

// Create registers a new patient. Age is derived from the birth date, never
// trusted from the input.
func (s *DefaultService) Create(ctx context.Context, actor scheduling.Actor, patient models.Patient) (*models.Patient, error) {
	if err := validatePatient(patient); err != nil {
		return nil, err
	}
	patient.Age = patient.AgeAt(s.clock.Now())
	patient.IsActive = true

	id, err := s.repo.Create(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("create patient failed: %w", err)
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, models.ActionPatientCreated, *created, "Registered patient "+created.FullName())
	return created, nil
}

// GetByID returns a single patient record.
func (s *DefaultService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, patientRepo.ErrNotFound) {
		return nil, scheduling.NotFoundError{Entity: "patient", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return patient, nil
}

// Update replaces the patient's editable fields, preserving identity, case
// history and lifecycle flags.
func (s *DefaultService) Update(ctx context.Context, actor scheduling.Actor, id string, patient models.Patient) (*models.Patient, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	patient.ID = existing.ID
	patient.Cases = existing.Cases
	patient.IsActive = existing.IsActive
	patient.RegistrationDate = existing.RegistrationDate
	patient.CreatedAt = existing.CreatedAt
	patient.Age = patient.AgeAt(s.clock.Now())

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("update patient failed: %w", err)
	}
	s.record(ctx, actor, models.ActionPatientUpdated, patient, "Updated patient "+patient.FullName())
	return &patient, nil
}

// List returns a page of patients plus the total match count.
func (s *DefaultService) List(ctx context.Context, opts patientRepo.ListOptions) ([]models.Patient, int64, error) {
	return s.repo.List(ctx, opts)
}

// Deactivate soft-deletes the patient: the record stays queryable for history
// but stops appearing active.
func (s *DefaultService) Deactivate(ctx context.Context, actor scheduling.Actor, id string) error {
	return s.setActive(ctx, actor, id, false, models.ActionPatientDeactivated, "Deactivated patient")
}

// Restore re-activates a soft-deleted patient.
func (s *DefaultService) Restore(ctx context.Context, actor scheduling.Actor, id string) error {
	return s.setActive(ctx, actor, id, true, models.ActionPatientRestored, "Restored patient")
}

func (s *DefaultService) setActive(ctx context.Context, actor scheduling.Actor, id string, active bool, action, verb string) error {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set patient active failed: %w", err)
	}
	s.record(ctx, actor, action, *patient, verb+" "+patient.FullName())
	return nil
}

// HardDelete permanently removes the patient record.
func (s *DefaultService) HardDelete(ctx context.Context, actor scheduling.Actor, id string) error {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return fmt.Errorf("delete patient failed: %w", err)
	}
	s.record(ctx, actor, models.ActionPatientHardDeleted, *patient, "Permanently deleted patient "+patient.FullName())
	return nil
}

func (s *DefaultService) record(ctx context.Context, actor scheduling.Actor, action string, patient models.Patient, description string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		EntityType:  "patient",
		EntityID:    patient.ID,
		EntityName:  patient.FullName(),
		Description: description,
	})
}
