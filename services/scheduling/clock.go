package scheduling

import "time"

// Clock abstracts wall-clock time so the sweeper and business-hours checks
// are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock.
func SystemClock() Clock { return systemClock{} }

// civilDate renders t as a time-zone-naive calendar date.
func civilDate(t time.Time) string { return t.Format("2006-01-02") }

// wallClock renders t as a zero-padded 24-hour HH:mm string.
func wallClock(t time.Time) string { return t.Format("15:04") }
