package scheduling

import (
	"context"
	"fmt"

	appointmentRepo "clinicore/database/repository/appointment"
	"clinicore/models"

	"go.uber.org/zap"
)

// MissedReason is the cancellation reason tag stamped on swept appointments.
const MissedReason = "missed: appointment window elapsed"

// Sweeper finds appointments whose window has fully elapsed while still in an
// active status (Pending, Scheduled, Rescheduled) and cancels them. It runs
// inline on active-list reads, on demand from the admin trigger, and on an
// interval from the cron worker; all three paths share this one selection.
type Sweeper struct {
	Repo     appointmentRepo.AppointmentRepository
	Patients PatientDirectory
	Notifier NotificationSender
	Audit    AuditRecorder
	Clock    Clock
}

// Sweep cancels every missed appointment and returns how many were swept.
// An appointment is missed iff its date is before today, or it is today and
// its end time is already behind the clock. The sweep is idempotent: swept
// appointments become Cancelled and never match the candidate query again.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.Clock.Now()
	candidates, err := s.Repo.Missed(ctx, civilDate(now), wallClock(now))
	if err != nil {
		return 0, fmt.Errorf("sweep query failed: %w", err)
	}

	swept := 0
	for _, appt := range candidates {
		prior := appt.Status
		appt.Status = models.StatusCancelled
		appt.CancellationReason = MissedReason
		appt.UpdatedAt = now

		if err := s.Repo.Update(ctx, appt); err != nil {
			// Keep sweeping; the failed one is picked up on the next run.
			zap.L().Error("sweep: cancel failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
			continue
		}
		swept++

		if s.Audit != nil {
			s.Audit.Record(ctx, models.AuditLog{
				ActorName:   "System",
				Action:      models.ActionAppointmentMissed,
				EntityType:  "appointment",
				EntityID:    appt.ID,
				EntityName:  appt.Title,
				Description: fmt.Sprintf("Auto-cancelled appointment on %s %s-%s: window elapsed", appt.Date, appt.StartTime, appt.EndTime),
				Details: map[string]any{
					"priorStatus": string(prior),
					"reason":      MissedReason,
				},
			})
		}

		s.notifyMissed(ctx, appt)
	}
	return swept, nil
}

// notifyMissed is best-effort: a lookup or send failure never aborts the
// cancellation nor the sweep of subsequent appointments.
func (s *Sweeper) notifyMissed(ctx context.Context, appt models.Appointment) {
	if s.Notifier == nil || s.Patients == nil {
		return
	}
	patient, err := s.Patients.FindByID(ctx, appt.PatientID)
	if err != nil {
		zap.L().Warn("sweep: patient lookup for notification failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return
	}
	if err := s.Notifier.SendAppointmentEvent(ctx, patient, appt, models.EventMissed); err != nil {
		zap.L().Warn("sweep: missed-appointment notification failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}
