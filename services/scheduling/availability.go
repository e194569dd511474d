package scheduling

import (
	"context"
	"fmt"

	"clinicore/config"
	appointmentRepo "clinicore/database/repository/appointment"
)

// Policy is the clinic's scheduling configuration: the business-hours window
// every slot must lie inside, the increment used when partitioning a day into
// bookable slots, and the number of concurrent non-cancelled appointments
// permitted over any overlapping window.
type Policy struct {
	BusinessStart string
	BusinessEnd   string
	SlotMinutes   int
	Capacity      int
}

// DefaultPolicy is the canonical clinic policy: 09:00-17:00, 30-minute
// increments, two concurrent bookings.
func DefaultPolicy() Policy {
	return Policy{
		BusinessStart: "09:00",
		BusinessEnd:   "17:00",
		SlotMinutes:   30,
		Capacity:      2,
	}
}

// PolicyFromConfig builds the policy from loaded configuration, falling back
// to the defaults for unset or nonsensical values.
func PolicyFromConfig() Policy {
	p := Policy{
		BusinessStart: config.AppConfig.BusinessHoursStart,
		BusinessEnd:   config.AppConfig.BusinessHoursEnd,
		SlotMinutes:   config.AppConfig.SlotMinutes,
		Capacity:      config.AppConfig.SlotCapacity,
	}
	def := DefaultPolicy()
	if !ValidTime(p.BusinessStart) || !ValidTime(p.BusinessEnd) || p.BusinessStart >= p.BusinessEnd {
		p.BusinessStart, p.BusinessEnd = def.BusinessStart, def.BusinessEnd
	}
	if p.SlotMinutes <= 0 {
		p.SlotMinutes = def.SlotMinutes
	}
	if p.Capacity <= 0 {
		p.Capacity = def.Capacity
	}
	return p
}

// AvailabilityChecker decides whether a new or rescheduled slot may be
// admitted. It is a read-only check; the capacity-checked repository writes
// re-validate at commit time.
type AvailabilityChecker struct {
	Repo   appointmentRepo.AppointmentRepository
	Policy Policy
}

// IsAvailable reports whether the candidate window may be booked. The window
// is rejected when malformed (end <= start), when it falls outside business
// hours, or when the overlap count has reached capacity. Pass excludeID to
// skip the appointment's own record during a reschedule.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, date, start, end, excludeID string) (bool, error) {
	if end <= start {
		return false, nil
	}
	if start < c.Policy.BusinessStart || end > c.Policy.BusinessEnd {
		return false, nil
	}

	appts, err := c.Repo.ListByDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return OverlapCount(appts, start, end, excludeID) < c.Policy.Capacity, nil
}
