package scheduling

import (
	"testing"

	"clinicore/models"
)

func TestValidTime(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"09:00", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:60", false},
		{"0900", false},
		{"", false},
		{"ab:cd", false},
	}
	for _, c := range cases {
		if got := ValidTime(c.in); got != c.want {
			t.Errorf("ValidTime(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2026-03-15", true},
		{"2026-02-29", false},
		{"2026-13-01", false},
		{"15-03-2026", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidDate(c.in); got != c.want {
			t.Errorf("ValidDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestOverlapCount(t *testing.T) {
	appts := []models.Appointment{
		{ID: "a", StartTime: "09:00", EndTime: "10:00", Status: models.StatusScheduled},
		{ID: "b", StartTime: "10:00", EndTime: "11:00", Status: models.StatusScheduled},
		{ID: "c", StartTime: "09:30", EndTime: "10:30", Status: models.StatusCancelled},
	}

	cases := []struct {
		name      string
		start     string
		end       string
		excludeID string
		want      int
	}{
		{"inside first", "09:15", "09:45", "", 1},
		{"spans both", "09:30", "10:30", "", 2},
		{"adjacent windows do not overlap", "10:00", "10:30", "", 1},
		{"ends where first starts", "08:00", "09:00", "", 0},
		{"cancelled never counts", "09:30", "10:00", "", 1},
		{"exclude self", "09:00", "10:00", "a", 0},
		{"no bookings in window", "11:00", "12:00", "", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := OverlapCount(appts, c.start, c.end, c.excludeID)
			if got != c.want {
				t.Fatalf("OverlapCount(%s-%s, exclude=%q) = %d, want %d", c.start, c.end, c.excludeID, got, c.want)
			}
		})
	}
}
