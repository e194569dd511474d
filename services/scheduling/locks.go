package scheduling

import "sync"

// dateLocks serializes the check-then-write sequence per civil date. Two
// concurrent bookings for overlapping windows otherwise both pass a stale
// availability check; the capacity-checked repository write re-validates at
// commit time, and this lock keeps the common single-process case strictly
// ordered.
type dateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDateLocks() *dateLocks {
	return &dateLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for the given date and returns its release func.
func (l *dateLocks) acquire(date string) func() {
	l.mu.Lock()
	m, ok := l.locks[date]
	if !ok {
		m = &sync.Mutex{}
		l.locks[date] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
