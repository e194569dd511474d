package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	appointmentRepo "clinicore/database/repository/appointment"
	"clinicore/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAppointmentService implements AppointmentService on top of the
// appointment repository and the external collaborators.
type DefaultAppointmentService struct {
	repo     appointmentRepo.AppointmentRepository
	patients PatientDirectory
	notifier NotificationSender
	audit    AuditRecorder
	clock    Clock
	policy   Policy
	checker  *AvailabilityChecker
	locks    *dateLocks
	sweeper  *Sweeper
}

// NewAppointmentService wires the scheduling engine. notifier and audit may
// be nil; their absence only silences the respective side effects.
func NewAppointmentService(
	repo appointmentRepo.AppointmentRepository,
	patients PatientDirectory,
	notifier NotificationSender,
	audit AuditRecorder,
	clock Clock,
	policy Policy,
) *DefaultAppointmentService {
	if clock == nil {
		clock = SystemClock()
	}
	return &DefaultAppointmentService{
		repo:     repo,
		patients: patients,
		notifier: notifier,
		audit:    audit,
		clock:    clock,
		policy:   policy,
		checker:  &AvailabilityChecker{Repo: repo, Policy: policy},
		locks:    newDateLocks(),
		sweeper: &Sweeper{
			Repo:     repo,
			Patients: patients,
			Notifier: notifier,
			Audit:    audit,
			Clock:    clock,
		},
	}
}

func validateSlot(date, start, end string) error {
	if !ValidDate(date) {
		return ValidationError{Field: "date", Reason: "want 2006-01-02, got " + strconv.Quote(date)}
	}
	if !ValidTime(start) {
		return ValidationError{Field: "startTime", Reason: "want HH:mm, got " + strconv.Quote(start)}
	}
	if !ValidTime(end) {
		return ValidationError{Field: "endTime", Reason: "want HH:mm, got " + strconv.Quote(end)}
	}
	if end <= start {
		return ValidationError{Field: "endTime", Reason: "must be after startTime"}
	}
	return nil
}

// lookupPatient resolves a patient through the directory. A missing patient
// maps to NotFoundError; any other directory failure is propagated as-is so
// infrastructure errors are not mistaken for a bad id.
func (s *DefaultAppointmentService) lookupPatient(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		var nf NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, fmt.Errorf("patient lookup failed: %w", err)
	}
	if patient == nil {
		return nil, NotFoundError{Entity: "patient", ID: id}
	}
	return patient, nil
}

// Create books a new appointment. Admin-created appointments start Scheduled;
// public booking requests start Pending. Returns ConflictError when the slot
// is full and NotFoundError when the patient does not exist.
func (s *DefaultAppointmentService) Create(ctx context.Context, actor Actor, req CreateRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if err := validateSlot(req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	patient, err := s.lookupPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(req.Date)
	defer unlock()

	ok, err := s.checker.IsAvailable(ctx, req.Date, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ConflictError{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	}

	status := models.StatusScheduled
	action := models.ActionAppointmentCreated
	if req.PublicRequest {
		status = models.StatusPending
		action = models.ActionAppointmentRequested
	}

	now := s.clock.Now()
	appt := models.Appointment{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Title:     strings.TrimSpace(req.Title),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertWithCapacityCheck(ctx, appt, s.policy.Capacity); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, ConflictError{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
		}
		return nil, fmt.Errorf("create appointment failed: %w", err)
	}

	s.record(ctx, actor, action, appt,
		fmt.Sprintf("Booked %s on %s %s-%s for %s", appt.Title, appt.Date, appt.StartTime, appt.EndTime, patient.FullName()),
		nil)
	s.notify(ctx, patient, appt, models.EventCreated)

	return &appt, nil
}

// GetByID returns a single appointment.
func (s *DefaultAppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, NotFoundError{Entity: "appointment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Update applies a partial edit under the lifecycle rules. An availability
// check runs only when the patch touches date or time; an explicitly supplied
// status overrides the implicit transition.
func (s *DefaultAppointmentService) Update(ctx context.Context, actor Actor, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cancelled is terminal: only the cancellation reason may still be
	// attached.
	if appt.Status == models.StatusCancelled {
		if patch.HasSlotChange() || patch.Status != nil || patch.Title != nil {
			return nil, ConflictError{Reason: "appointment is cancelled and can no longer be modified"}
		}
		if patch.CancellationReason != nil {
			appt.CancellationReason = *patch.CancellationReason
			appt.UpdatedAt = s.clock.Now()
			if err := s.repo.Update(ctx, *appt); err != nil {
				return nil, fmt.Errorf("update appointment failed: %w", err)
			}
		}
		return appt, nil
	}

	date, start, end := appt.Date, appt.StartTime, appt.EndTime
	if patch.Date != nil {
		date = *patch.Date
	}
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}

	slotChanged := patch.HasSlotChange()
	var unlock func()
	if slotChanged {
		if err := validateSlot(date, start, end); err != nil {
			return nil, err
		}
		unlock = s.locks.acquire(date)
		defer unlock()

		ok, err := s.checker.IsAvailable(ctx, date, start, end, appt.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ConflictError{Date: date, StartTime: start, EndTime: end}
		}
	}

	next, err := NextStatus(appt.Status, patch.Status, slotChanged)
	if err != nil {
		return nil, err
	}

	prev := appt.Status
	appt.Date, appt.StartTime, appt.EndTime = date, start, end
	appt.Status = next
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ValidationError{Field: "title", Reason: "must not be empty"}
		}
		appt.Title = strings.TrimSpace(*patch.Title)
	}
	if next == models.StatusCancelled && patch.CancellationReason != nil {
		appt.CancellationReason = *patch.CancellationReason
	}
	appt.UpdatedAt = s.clock.Now()

	if slotChanged {
		err = s.repo.UpdateWithCapacityCheck(ctx, *appt, s.policy.Capacity)
	} else {
		err = s.repo.Update(ctx, *appt)
	}
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, ConflictError{Date: date, StartTime: start, EndTime: end}
		}
		return nil, fmt.Errorf("update appointment failed: %w", err)
	}

	s.record(ctx, actor, models.ActionAppointmentUpdated, *appt,
		fmt.Sprintf("Updated appointment %s (%s -> %s)", appt.Title, prev, appt.Status),
		map[string]any{"priorStatus": string(prev)})
	if kind := eventFor(prev, appt.Status); kind != "" {
		s.notifyPatient(ctx, *appt, kind)
	}

	return appt, nil
}

// Reschedule moves an appointment to a new slot. Unlike Update it always
// requires the availability check to pass, excluding the appointment's own
// record; a failed check leaves the appointment entirely unmodified.
func (s *DefaultAppointmentService) Reschedule(ctx context.Context, actor Actor, id string, req RescheduleRequest) (*models.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return nil, ConflictError{Reason: "cancelled appointment cannot be rescheduled"}
	}
	if err := validateSlot(req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(req.Date)
	defer unlock()

	ok, err := s.checker.IsAvailable(ctx, req.Date, req.StartTime, req.EndTime, appt.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ConflictError{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	}

	prev := appt.Status
	appt.Date, appt.StartTime, appt.EndTime = req.Date, req.StartTime, req.EndTime
	appt.Status = implicitNext(prev)
	if strings.TrimSpace(req.Title) != "" {
		appt.Title = strings.TrimSpace(req.Title)
	}
	appt.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateWithCapacityCheck(ctx, *appt, s.policy.Capacity); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, ConflictError{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
		}
		return nil, fmt.Errorf("reschedule failed: %w", err)
	}

	s.record(ctx, actor, models.ActionAppointmentRescheduled, *appt,
		fmt.Sprintf("Rescheduled %s to %s %s-%s", appt.Title, appt.Date, appt.StartTime, appt.EndTime),
		map[string]any{"priorStatus": string(prev)})
	if kind := eventFor(prev, appt.Status); kind != "" {
		s.notifyPatient(ctx, *appt, kind)
	}

	return appt, nil
}

// Cancel marks the appointment Cancelled. Cancelling an already-cancelled
// appointment is a no-op that returns the current state; it neither errors
// nor duplicates audit entries.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, actor Actor, id, reason string) (*models.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return appt, nil
	}

	prev := appt.Status
	appt.Status = models.StatusCancelled
	appt.CancellationReason = reason
	appt.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *appt); err != nil {
		return nil, fmt.Errorf("cancel appointment failed: %w", err)
	}

	s.record(ctx, actor, models.ActionAppointmentCancelled, *appt,
		fmt.Sprintf("Cancelled %s on %s %s-%s", appt.Title, appt.Date, appt.StartTime, appt.EndTime),
		map[string]any{"priorStatus": string(prev), "reason": reason})
	s.notifyPatient(ctx, *appt, models.EventCancelled)

	return appt, nil
}

// ListActive returns non-cancelled appointments, running the missed sweep
// first so callers never see stale active entries.
func (s *DefaultAppointmentService) ListActive(ctx context.Context, f ListFilter) ([]models.Appointment, error) {
	if _, err := s.SweepMissed(ctx); err != nil {
		zap.L().Warn("inline sweep failed", zap.Error(err))
	}
	return s.repo.List(ctx, appointmentRepo.Filter{
		Date:             f.Date,
		Status:           f.Status,
		PatientID:        f.PatientID,
		ExcludeCancelled: true,
	})
}

// ListArchived returns cancelled appointments, most recent first, capped at
// the 50 latest.
func (s *DefaultAppointmentService) ListArchived(ctx context.Context, f ListFilter) ([]models.Appointment, error) {
	return s.repo.List(ctx, appointmentRepo.Filter{
		Date:          f.Date,
		PatientID:     f.PatientID,
		OnlyCancelled: true,
		SortDesc:      true,
		Limit:         50,
	})
}

// ListByPatient returns a patient's full appointment history. sortBy accepts
// "date" (default, newest first) and "dateAsc".
func (s *DefaultAppointmentService) ListByPatient(ctx context.Context, patientID, sortBy string) ([]models.Appointment, error) {
	if _, err := s.lookupPatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, appointmentRepo.Filter{
		PatientID: patientID,
		SortDesc:  sortBy != "dateAsc",
	})
}

// AvailableSlots partitions business hours into fixed-size increments and
// reports, per increment, how many non-cancelled appointments overlap it and
// whether another booking would still be admitted.
func (s *DefaultAppointmentService) AvailableSlots(ctx context.Context, date string) ([]models.SlotAvailability, error) {
	if !ValidDate(date) {
		return nil, ValidationError{Field: "date", Reason: "want 2006-01-02, got " + strconv.Quote(date)}
	}

	appts, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments failed: %w", err)
	}

	var slots []models.SlotAvailability
	dayStart := minutesOf(s.policy.BusinessStart)
	dayEnd := minutesOf(s.policy.BusinessEnd)
	for start := dayStart; start+s.policy.SlotMinutes <= dayEnd; start += s.policy.SlotMinutes {
		from := timeString(start)
		to := timeString(start + s.policy.SlotMinutes)
		booked := OverlapCount(appts, from, to, "")
		slots = append(slots, models.SlotAvailability{
			StartTime: from,
			EndTime:   to,
			Booked:    booked,
			Available: booked < s.policy.Capacity,
		})
	}
	return slots, nil
}

// SweepMissed runs the missed-appointment sweep and returns how many
// appointments were auto-cancelled.
func (s *DefaultAppointmentService) SweepMissed(ctx context.Context) (int, error) {
	return s.sweeper.Sweep(ctx)
}

func (s *DefaultAppointmentService) record(ctx context.Context, actor Actor, action string, appt models.Appointment, description string, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		EntityType:  "appointment",
		EntityID:    appt.ID,
		EntityName:  appt.Title,
		Description: description,
		Details:     details,
	})
}

func (s *DefaultAppointmentService) notifyPatient(ctx context.Context, appt models.Appointment, kind models.EventKind) {
	if s.notifier == nil || s.patients == nil {
		return
	}
	patient, err := s.patients.FindByID(ctx, appt.PatientID)
	if err != nil || patient == nil {
		zap.L().Warn("patient lookup for notification failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return
	}
	s.notify(ctx, patient, appt, kind)
}

func (s *DefaultAppointmentService) notify(ctx context.Context, patient *models.Patient, appt models.Appointment, kind models.EventKind) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendAppointmentEvent(ctx, patient, appt, kind); err != nil {
		zap.L().Warn("appointment notification failed",
			zap.String("appointmentId", appt.ID),
			zap.String("event", string(kind)),
			zap.Error(err))
	}
}

func minutesOf(t string) int {
	h, _ := strconv.Atoi(t[:2])
	m, _ := strconv.Atoi(t[3:])
	return h*60 + m
}

func timeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
