package patient

import (
	"context"
	"fmt"
	"strings"

	"clinicore/models"
	"clinicore/services/scheduling"

	"github.com/google/uuid"
)

func findCase(patient *models.Patient, caseID string) (int, error) {
	for i := range patient.Cases {
		if patient.Cases[i].ID == caseID {
			return i, nil
		}
	}
	return -1, scheduling.NotFoundError{Entity: "case", ID: caseID}
}

// AddCase opens a new treatment case on the patient record.
func (s *DefaultService) AddCase(ctx context.Context, actor scheduling.Actor, patientID string, c models.Case) (*models.Patient, error) {
	if strings.TrimSpace(c.Title) == "" {
		return nil, scheduling.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	patient, err := s.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c.ID = uuid.New().String()
	if c.Status == "" {
		c.Status = "Active"
	}
	if c.StartDate.IsZero() {
		c.StartDate = now
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	patient.Cases = append(patient.Cases, c)

	if err := s.repo.Update(ctx, *patient); err != nil {
		return nil, fmt.Errorf("add case failed: %w", err)
	}
	s.record(ctx, actor, models.ActionPatientUpdated, *patient,
		fmt.Sprintf("Opened case %q for %s", c.Title, patient.FullName()))
	return patient, nil
}

// UpdateCaseStatus moves a case between Active, Completed and Cancelled.
// Closing a case stamps its end date.
func (s *DefaultService) UpdateCaseStatus(ctx context.Context, actor scheduling.Actor, patientID, caseID, status string) (*models.Patient, error) {
	switch status {
	case "Active", "Completed", "Cancelled":
	default:
		return nil, scheduling.ValidationError{Field: "status", Reason: "unknown case status " + status}
	}

	patient, err := s.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i, err := findCase(patient, caseID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	patient.Cases[i].Status = status
	patient.Cases[i].UpdatedAt = now
	if status != "Active" {
		patient.Cases[i].EndDate = &now
	} else {
		patient.Cases[i].EndDate = nil
	}

	if err := s.repo.Update(ctx, *patient); err != nil {
		return nil, fmt.Errorf("update case status failed: %w", err)
	}
	s.record(ctx, actor, models.ActionPatientUpdated, *patient,
		fmt.Sprintf("Marked case %q %s for %s", patient.Cases[i].Title, status, patient.FullName()))
	return patient, nil
}

// AddCaseNote appends a dated note to a case.
func (s *DefaultService) AddCaseNote(ctx context.Context, actor scheduling.Actor, patientID, caseID string, note models.CaseNote) (*models.Patient, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, scheduling.ValidationError{Field: "content", Reason: "must not be empty"}
	}

	patient, err := s.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i, err := findCase(patient, caseID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if note.Date.IsZero() {
		note.Date = now
	}
	if note.CreatedBy == "" {
		note.CreatedBy = actor.Name
	}
	patient.Cases[i].Notes = append(patient.Cases[i].Notes, note)
	patient.Cases[i].UpdatedAt = now

	if err := s.repo.Update(ctx, *patient); err != nil {
		return nil, fmt.Errorf("add case note failed: %w", err)
	}
	return patient, nil
}

// AddCasePayment records a payment against a case.
func (s *DefaultService) AddCasePayment(ctx context.Context, actor scheduling.Actor, patientID, caseID string, payment models.CasePayment) (*models.Patient, error) {
	if payment.Amount <= 0 {
		return nil, scheduling.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	patient, err := s.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i, err := findCase(patient, caseID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if payment.Date.IsZero() {
		payment.Date = now
	}
	patient.Cases[i].Payments = append(patient.Cases[i].Payments, payment)
	patient.Cases[i].UpdatedAt = now

	if err := s.repo.Update(ctx, *patient); err != nil {
		return nil, fmt.Errorf("add case payment failed: %w", err)
	}
	s.record(ctx, actor, models.ActionPatientUpdated, *patient,
		fmt.Sprintf("Recorded payment of %.2f on case %q for %s", payment.Amount, patient.Cases[i].Title, patient.FullName()))
	return patient, nil
}
