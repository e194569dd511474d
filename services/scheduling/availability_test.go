package scheduling

import (
	"context"
	"testing"

	"clinicore/models"
)

func seedAppt(t *testing.T, repo *memRepo, id, date, start, end string, status models.AppointmentStatus) {
	t.Helper()
	err := repo.Create(context.Background(), models.Appointment{
		ID:        id,
		PatientID: "p1",
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Title:     "Checkup",
		Status:    status,
	})
	if err != nil {
		t.Fatalf("seed appointment %s: %v", id, err)
	}
}

func TestIsAvailable(t *testing.T) {
	repo := newMemRepo()
	checker := &AvailabilityChecker{Repo: repo, Policy: DefaultPolicy()}
	ctx := context.Background()
	date := "2026-09-01"

	seedAppt(t, repo, "a1", date, "10:00", "10:30", models.StatusScheduled)
	seedAppt(t, repo, "a2", date, "10:00", "10:30", models.StatusScheduled)
	seedAppt(t, repo, "a3", date, "14:00", "14:30", models.StatusCancelled)

	cases := []struct {
		name      string
		start     string
		end       string
		excludeID string
		want      bool
	}{
		{"full slot rejected", "10:00", "10:30", "", false},
		{"partial overlap with full slot rejected", "10:15", "10:45", "", false},
		{"adjacent slot admitted", "10:30", "11:00", "", true},
		{"cancelled frees the window", "14:00", "14:30", "", true},
		{"before business hours", "08:30", "09:00", "", false},
		{"past business hours", "16:45", "17:15", "", false},
		{"end equals start", "11:00", "11:00", "", false},
		{"end before start", "11:30", "11:00", "", false},
		{"exclude self frees one seat", "10:00", "10:30", "a1", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, err := checker.IsAvailable(ctx, date, c.start, c.end, c.excludeID)
			if err != nil {
				t.Fatalf("IsAvailable: %v", err)
			}
			if ok != c.want {
				t.Fatalf("IsAvailable(%s %s-%s, exclude=%q) = %v, want %v", date, c.start, c.end, c.excludeID, ok, c.want)
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.BusinessStart != "09:00" || p.BusinessEnd != "17:00" {
		t.Errorf("business hours = %s-%s, want 09:00-17:00", p.BusinessStart, p.BusinessEnd)
	}
	if p.SlotMinutes != 30 {
		t.Errorf("slot minutes = %d, want 30", p.SlotMinutes)
	}
	if p.Capacity != 2 {
		t.Errorf("capacity = %d, want 2", p.Capacity)
	}
}
