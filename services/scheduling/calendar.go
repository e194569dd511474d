package scheduling

import (
	"regexp"
	"time"

	"clinicore/models"
)

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether s is a zero-padded 24-hour HH:mm string.
// Zero-padding matters: it keeps lexicographic comparison consistent with
// chronological order everywhere slots are compared.
func ValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// ValidDate reports whether s is a civil date in 2006-01-02 form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// OverlapCount returns how many non-cancelled appointments overlap the
// half-open candidate window [startTime, endTime), skipping the appointment
// with excludeID (used during reschedule to avoid self-conflict). Pure
// function, no side effects.
func OverlapCount(appts []models.Appointment, startTime, endTime, excludeID string) int {
	count := 0
	for _, appt := range appts {
		if appt.Status == models.StatusCancelled {
			continue
		}
		if excludeID != "" && appt.ID == excludeID {
			continue
		}
		// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
		if appt.StartTime < endTime && startTime < appt.EndTime {
			count++
		}
	}
	return count
}
