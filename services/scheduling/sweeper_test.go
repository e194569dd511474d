package scheduling

import (
	"context"
	"testing"
	"time"

	"clinicore/models"
)

func TestSweep(t *testing.T) {
	// Clock pinned to 2026-08-28 12:00.
	svc, repo, notifier, audit := newTestService(testClock())
	ctx := context.Background()

	seedAppt(t, repo, "yesterday", "2026-08-27", "10:00", "10:30", models.StatusScheduled)
	seedAppt(t, repo, "earlier-today", "2026-08-28", "09:00", "09:30", models.StatusPending)
	seedAppt(t, repo, "later-today", "2026-08-28", "15:00", "15:30", models.StatusScheduled)
	seedAppt(t, repo, "tomorrow", "2026-08-29", "10:00", "10:30", models.StatusRescheduled)
	seedAppt(t, repo, "done", "2026-08-27", "11:00", "11:30", models.StatusFinished)
	seedAppt(t, repo, "gone", "2026-08-27", "12:00", "12:30", models.StatusCancelled)

	swept, err := svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 2 {
		t.Fatalf("swept = %d, want 2", swept)
	}

	for _, id := range []string{"yesterday", "earlier-today"} {
		appt, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if appt.Status != models.StatusCancelled {
			t.Errorf("%s status = %s, want Cancelled", id, appt.Status)
		}
		if appt.CancellationReason != MissedReason {
			t.Errorf("%s reason = %q, want %q", id, appt.CancellationReason, MissedReason)
		}
		if !appt.UpdatedAt.Equal(testClock()) {
			t.Errorf("%s updatedAt = %v, want sweep time %v", id, appt.UpdatedAt, testClock())
		}
	}

	for _, id := range []string{"later-today", "tomorrow"} {
		appt, _ := repo.GetByID(ctx, id)
		if appt.Status == models.StatusCancelled {
			t.Errorf("%s was swept but its window has not elapsed", id)
		}
	}
	if appt, _ := repo.GetByID(ctx, "done"); appt.Status != models.StatusFinished {
		t.Errorf("finished appointment swept: status = %s", appt.Status)
	}

	if len(audit.entries) != 2 {
		t.Errorf("audit entries = %d, want 2", len(audit.entries))
	}
	for _, e := range audit.entries {
		if e.Action != models.ActionAppointmentMissed {
			t.Errorf("audit action = %s, want %s", e.Action, models.ActionAppointmentMissed)
		}
		if e.ActorName != "System" {
			t.Errorf("audit actor = %q, want System", e.ActorName)
		}
	}
	for _, kind := range notifier.events {
		if kind != models.EventMissed {
			t.Errorf("notification event = %s, want Missed", kind)
		}
	}

	// Second run finds nothing: swept appointments are Cancelled now.
	swept, err = svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if swept != 0 {
		t.Errorf("second sweep = %d, want 0", swept)
	}
}

func TestSweepNotificationFailureDoesNotAbort(t *testing.T) {
	svc, repo, notifier, _ := newTestService(testClock())
	notifier.fail = true
	ctx := context.Background()

	seedAppt(t, repo, "m1", "2026-08-20", "10:00", "10:30", models.StatusScheduled)
	seedAppt(t, repo, "m2", "2026-08-21", "10:00", "10:30", models.StatusScheduled)

	swept, err := svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 2 {
		t.Fatalf("swept = %d, want 2 despite notification failures", swept)
	}
	for _, id := range []string{"m1", "m2"} {
		appt, _ := repo.GetByID(ctx, id)
		if appt.Status != models.StatusCancelled {
			t.Errorf("%s status = %s, want Cancelled", id, appt.Status)
		}
	}
}

func TestSweepBoundaryEndTimeEqualsNow(t *testing.T) {
	// End time exactly equal to the current wall clock is not yet missed.
	now := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	svc, repo, _, _ := newTestService(now)
	ctx := context.Background()

	seedAppt(t, repo, "ending-now", "2026-08-28", "10:00", "10:30", models.StatusScheduled)

	swept, err := svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if swept != 0 {
		t.Errorf("swept = %d, want 0 for end time equal to now", swept)
	}
}
