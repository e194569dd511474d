package scheduling

import (
	"testing"

	"clinicore/models"
)

func statusPtr(s models.AppointmentStatus) *models.AppointmentStatus { return &s }

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name        string
		current     models.AppointmentStatus
		explicit    *models.AppointmentStatus
		slotChanged bool
		want        models.AppointmentStatus
		wantErr     bool
	}{
		{"pending approved by slot change", models.StatusPending, nil, true, models.StatusScheduled, false},
		{"scheduled moves to rescheduled", models.StatusScheduled, nil, true, models.StatusRescheduled, false},
		{"finished moves to rescheduled", models.StatusFinished, nil, true, models.StatusRescheduled, false},
		{"rescheduled stays rescheduled", models.StatusRescheduled, nil, true, models.StatusRescheduled, false},
		{"no change without slot change", models.StatusScheduled, nil, false, models.StatusScheduled, false},
		{"explicit wins over implicit", models.StatusScheduled, statusPtr(models.StatusFinished), true, models.StatusFinished, false},
		{"explicit without slot change", models.StatusPending, statusPtr(models.StatusCancelled), false, models.StatusCancelled, false},
		{"unknown explicit status rejected", models.StatusScheduled, statusPtr(models.AppointmentStatus("Done")), false, models.StatusScheduled, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NextStatus(c.current, c.explicit, c.slotChanged)
			if c.wantErr {
				if err == nil {
					t.Fatalf("NextStatus(%s) err = nil, want validation error", c.current)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextStatus(%s) err = %v", c.current, err)
			}
			if got != c.want {
				t.Fatalf("NextStatus(%s, explicit=%v, slotChanged=%v) = %s, want %s",
					c.current, c.explicit, c.slotChanged, got, c.want)
			}
		})
	}
}

func TestEventFor(t *testing.T) {
	cases := []struct {
		prev, next models.AppointmentStatus
		want       models.EventKind
	}{
		{models.StatusPending, models.StatusScheduled, models.EventApproved},
		{models.StatusScheduled, models.StatusRescheduled, models.EventRescheduled},
		{models.StatusScheduled, models.StatusFinished, models.EventCompleted},
		{models.StatusScheduled, models.StatusCancelled, models.EventCancelled},
		{models.StatusScheduled, models.StatusScheduled, ""},
		{models.StatusRescheduled, models.StatusScheduled, models.EventRescheduled},
	}
	for _, c := range cases {
		if got := eventFor(c.prev, c.next); got != c.want {
			t.Errorf("eventFor(%s, %s) = %q, want %q", c.prev, c.next, got, c.want)
		}
	}
}
