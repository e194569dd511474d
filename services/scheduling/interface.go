package scheduling

import (
	"context"

	"clinicore/models"
)

// PatientDirectory is the patient-lookup collaborator used to validate the
// patient reference at booking time.
type PatientDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Patient, error)
}

// NotificationSender delivers an appointment event to the patient.
// Best-effort: a failed send never fails the operation that triggered it.
type NotificationSender interface {
	SendAppointmentEvent(ctx context.Context, patient *models.Patient, appt models.Appointment, kind models.EventKind) error
}

// AuditRecorder appends one entry to the audit trail, fire-and-forget.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// Actor identifies who performs a back-office operation, for the audit trail.
// The zero value means a public (unauthenticated) caller.
type Actor struct {
	ID   string
	Name string
}

// CreateRequest carries the inputs of a booking request. PublicRequest marks
// requests submitted through the public site, which start life as Pending
// instead of Scheduled.
type CreateRequest struct {
	PatientID     string
	Date          string
	StartTime     string
	EndTime       string
	Title         string
	PublicRequest bool
}

// RescheduleRequest carries the target slot of a strict reschedule.
type RescheduleRequest struct {
	Date      string
	StartTime string
	EndTime   string
	Title     string // optional, replaces the title when non-empty
}

// ListFilter narrows appointment listings.
type ListFilter struct {
	Date      string
	Status    models.AppointmentStatus
	PatientID string
}

// AppointmentService is the public surface of the scheduling engine.
type AppointmentService interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, actor Actor, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor Actor, id string, req RescheduleRequest) (*models.Appointment, error)
	Cancel(ctx context.Context, actor Actor, id, reason string) (*models.Appointment, error)
	ListActive(ctx context.Context, f ListFilter) ([]models.Appointment, error)
	ListArchived(ctx context.Context, f ListFilter) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID, sortBy string) ([]models.Appointment, error)
	AvailableSlots(ctx context.Context, date string) ([]models.SlotAvailability, error)
	SweepMissed(ctx context.Context) (int, error)
}
