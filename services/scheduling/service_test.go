package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicore/models"
)

var testActor = Actor{ID: "admin-1", Name: "Dr. Santos"}

func testClock() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"empty title", CreateRequest{PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "  "}},
		{"bad date", CreateRequest{PatientID: "p1", Date: "01-09-2026", StartTime: "10:00", EndTime: "10:30", Title: "Checkup"}},
		{"bad start time", CreateRequest{PatientID: "p1", Date: "2026-09-01", StartTime: "9:00", EndTime: "10:30", Title: "Checkup"}},
		{"end not after start", CreateRequest{PatientID: "p1", Date: "2026-09-01", StartTime: "10:30", EndTime: "10:30", Title: "Checkup"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testActor, c.req)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateUnknownPatient(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	_, err := svc.Create(context.Background(), testActor, CreateRequest{
		PatientID: "ghost", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Create err = %v, want NotFoundError", err)
	}
}

func TestCreateStatusByOrigin(t *testing.T) {
	svc, _, notifier, audit := newTestService(testClock())
	ctx := context.Background()

	admin, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if admin.Status != models.StatusScheduled {
		t.Errorf("admin-created status = %s, want Scheduled", admin.Status)
	}

	public, err := svc.Create(ctx, Actor{}, CreateRequest{
		PatientID: "p2", Date: "2026-09-01", StartTime: "11:00", EndTime: "11:30", Title: "Consultation",
		PublicRequest: true,
	})
	if err != nil {
		t.Fatalf("public create: %v", err)
	}
	if public.Status != models.StatusPending {
		t.Errorf("public-requested status = %s, want Pending", public.Status)
	}

	if len(notifier.events) != 2 || notifier.events[0] != models.EventCreated {
		t.Errorf("notifier events = %v, want two Created events", notifier.events)
	}
	if len(audit.entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(audit.entries))
	}
	if audit.entries[0].Action != models.ActionAppointmentCreated {
		t.Errorf("admin audit action = %s, want %s", audit.entries[0].Action, models.ActionAppointmentCreated)
	}
	if audit.entries[1].Action != models.ActionAppointmentRequested {
		t.Errorf("public audit action = %s, want %s", audit.entries[1].Action, models.ActionAppointmentRequested)
	}
}

// Two bookings fill a window; the third is rejected, and a cancellation frees
// the seat again.
func TestCapacityScenario(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	book := func(patientID string) (*models.Appointment, error) {
		return svc.Create(ctx, testActor, CreateRequest{
			PatientID: patientID, Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
		})
	}

	first, err := book("p1")
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := book("p2"); err != nil {
		t.Fatalf("second booking: %v", err)
	}

	_, err = book("p1")
	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("third booking err = %v, want ConflictError", err)
	}

	// Overlapping (not identical) window is also rejected while full.
	_, err = svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:15", EndTime: "10:45", Title: "Checkup",
	})
	if !errors.As(err, &conflict) {
		t.Fatalf("overlapping booking err = %v, want ConflictError", err)
	}

	if _, err := svc.Cancel(ctx, testActor, first.ID, "patient request"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := book("p1"); err != nil {
		t.Fatalf("booking after cancellation: %v", err)
	}
}

func TestUpdateImplicitTransitions(t *testing.T) {
	svc, _, notifier, _ := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, Actor{}, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
		PublicRequest: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Pending + slot change => Scheduled (approval).
	newStart, newEnd := "11:00", "11:30"
	updated, err := svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{StartTime: &newStart, EndTime: &newEnd})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if updated.Status != models.StatusScheduled {
		t.Errorf("status after approving slot change = %s, want Scheduled", updated.Status)
	}
	if last := notifier.events[len(notifier.events)-1]; last != models.EventApproved {
		t.Errorf("event = %s, want Approved", last)
	}

	// Scheduled + slot change => Rescheduled.
	newDate := "2026-09-02"
	updated, err = svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{Date: &newDate})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.Status != models.StatusRescheduled {
		t.Errorf("status after second slot change = %s, want Rescheduled", updated.Status)
	}

	// Title-only edit leaves the status alone.
	title := "Follow-up"
	updated, err = svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{Title: &title})
	if err != nil {
		t.Fatalf("title update: %v", err)
	}
	if updated.Status != models.StatusRescheduled {
		t.Errorf("status after title-only edit = %s, want Rescheduled", updated.Status)
	}
	if updated.Title != "Follow-up" {
		t.Errorf("title = %q, want Follow-up", updated.Title)
	}
}

func TestUpdateExplicitStatusWins(t *testing.T) {
	svc, _, notifier, _ := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newStart, newEnd := "13:00", "13:30"
	finished := models.StatusFinished
	updated, err := svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{
		StartTime: &newStart, EndTime: &newEnd, Status: &finished,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusFinished {
		t.Errorf("status = %s, want explicit Finished to override implicit Rescheduled", updated.Status)
	}
	if last := notifier.events[len(notifier.events)-1]; last != models.EventCompleted {
		t.Errorf("event = %s, want Completed", last)
	}
}

func TestUpdateCancelledIsTerminal(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Cancel(ctx, testActor, appt.ID, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	newStart := "11:00"
	_, err = svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{StartTime: &newStart})
	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("slot edit on cancelled err = %v, want ConflictError", err)
	}

	// The one allowed edit: attaching a reason after the fact.
	reason := "patient moved away"
	updated, err := svc.Update(ctx, testActor, appt.ID, models.AppointmentPatch{CancellationReason: &reason})
	if err != nil {
		t.Fatalf("reason attach: %v", err)
	}
	if updated.CancellationReason != reason {
		t.Errorf("reason = %q, want %q", updated.CancellationReason, reason)
	}
	if updated.Status != models.StatusCancelled {
		t.Errorf("status = %s, want Cancelled", updated.Status)
	}
}

func TestRescheduleExcludesSelf(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p2", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Cleaning",
	}); err != nil {
		t.Fatalf("second create: %v", err)
	}

	// Moving within its own (otherwise full) window must not self-conflict.
	moved, err := svc.Reschedule(ctx, testActor, appt.ID, RescheduleRequest{
		Date: "2026-09-01", StartTime: "10:15", EndTime: "10:45",
	})
	if err != nil {
		t.Fatalf("reschedule within own window: %v", err)
	}
	if moved.Status != models.StatusRescheduled {
		t.Errorf("status = %s, want Rescheduled", moved.Status)
	}
	if moved.StartTime != "10:15" || moved.EndTime != "10:45" {
		t.Errorf("slot = %s-%s, want 10:15-10:45", moved.StartTime, moved.EndTime)
	}
}

func TestRescheduleConflictLeavesUnmodified(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, pid := range []string{"p1", "p2"} {
		if _, err := svc.Create(ctx, testActor, CreateRequest{
			PatientID: pid, Date: "2026-09-01", StartTime: "15:00", EndTime: "15:30", Title: "Cleaning",
		}); err != nil {
			t.Fatalf("fill target slot: %v", err)
		}
	}

	_, err = svc.Reschedule(ctx, testActor, appt.ID, RescheduleRequest{
		Date: "2026-09-01", StartTime: "15:00", EndTime: "15:30",
	})
	var conflict ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("reschedule into full slot err = %v, want ConflictError", err)
	}

	current, err := svc.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.StartTime != "09:00" || current.Status != models.StatusScheduled {
		t.Errorf("appointment changed after failed reschedule: %s %s", current.StartTime, current.Status)
	}
}

func TestCancelIdempotent(t *testing.T) {
	svc, _, notifier, audit := newTestService(testClock())
	ctx := context.Background()

	appt, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(ctx, testActor, appt.ID, "no-show risk"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	auditCount, eventCount := len(audit.entries), len(notifier.events)

	again, err := svc.Cancel(ctx, testActor, appt.ID, "different reason")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if again.CancellationReason != "no-show risk" {
		t.Errorf("reason = %q, want original preserved", again.CancellationReason)
	}
	if len(audit.entries) != auditCount || len(notifier.events) != eventCount {
		t.Error("repeat cancel produced side effects")
	}
}

func TestListActiveAndArchived(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()

	a, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p2", Date: "2026-09-02", StartTime: "09:00", EndTime: "09:30", Title: "Cleaning",
	}); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if _, err := svc.Cancel(ctx, testActor, a.ID, "cancelled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	active, err := svc.ListActive(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].Title != "Cleaning" {
		t.Errorf("active = %v, want only the Cleaning appointment", active)
	}

	archived, err := svc.ListArchived(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != a.ID {
		t.Errorf("archived = %v, want only the cancelled appointment", archived)
	}
}

func TestListByPatientUnknown(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	_, err := svc.ListByPatient(context.Background(), "ghost", "date")
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("ListByPatient err = %v, want NotFoundError", err)
	}
}

func TestAvailableSlots(t *testing.T) {
	svc, _, _, _ := newTestService(testClock())
	ctx := context.Background()
	date := "2026-09-01"

	for _, pid := range []string{"p1", "p2"} {
		if _, err := svc.Create(ctx, testActor, CreateRequest{
			PatientID: pid, Date: date, StartTime: "09:00", EndTime: "09:30", Title: "Checkup",
		}); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
	}

	slots, err := svc.AvailableSlots(ctx, date)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	// 09:00-17:00 in 30-minute increments.
	if len(slots) != 16 {
		t.Fatalf("slot count = %d, want 16", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[0].EndTime != "09:30" {
		t.Errorf("first slot = %s-%s, want 09:00-09:30", slots[0].StartTime, slots[0].EndTime)
	}
	if slots[len(slots)-1].EndTime != "17:00" {
		t.Errorf("last slot ends %s, want 17:00", slots[len(slots)-1].EndTime)
	}
	if slots[0].Booked != 2 || slots[0].Available {
		t.Errorf("09:00 slot booked=%d available=%v, want 2/false", slots[0].Booked, slots[0].Available)
	}
	if slots[1].Booked != 0 || !slots[1].Available {
		t.Errorf("09:30 slot booked=%d available=%v, want 0/true", slots[1].Booked, slots[1].Available)
	}

	if _, err := svc.AvailableSlots(ctx, "bad-date"); err == nil {
		t.Error("AvailableSlots accepted a malformed date")
	}
}

// A directory outage must surface as an infrastructure error, not as a
// missing patient.
func TestPatientLookupFailureIsNotNotFound(t *testing.T) {
	repo := newMemRepo()
	svc := NewAppointmentService(repo, failingDirectory{}, nil, nil, fixedClock{now: testClock()}, DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Create(ctx, testActor, CreateRequest{
		PatientID: "p1", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:30", Title: "Checkup",
	})
	if err == nil {
		t.Fatal("Create succeeded with a failing directory")
	}
	var nf NotFoundError
	if errors.As(err, &nf) {
		t.Fatalf("Create err = %v, want a non-NotFound error", err)
	}

	_, err = svc.ListByPatient(ctx, "p1", "")
	if err == nil {
		t.Fatal("ListByPatient succeeded with a failing directory")
	}
	if errors.As(err, &nf) {
		t.Fatalf("ListByPatient err = %v, want a non-NotFound error", err)
	}
}
