package scheduling

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	appointmentRepo "clinicore/database/repository/appointment"
	"clinicore/models"

	"github.com/google/uuid"
)

// memRepo is an in-memory AppointmentRepository for tests.
type memRepo struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{appts: make(map[string]models.Appointment)}
}

func (r *memRepo) Create(ctx context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	r.appts[appt.ID] = appt
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &appt, nil
}

func (r *memRepo) Update(ctx context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[appt.ID]; !ok {
		return appointmentRepo.ErrNotFound
	}
	r.appts[appt.ID] = appt
	return nil
}

func (r *memRepo) List(ctx context.Context, f appointmentRepo.Filter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, appt := range r.appts {
		if f.Date != "" && appt.Date != f.Date {
			continue
		}
		if f.DateFrom != "" && appt.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && appt.Date > f.DateTo {
			continue
		}
		if f.PatientID != "" && appt.PatientID != f.PatientID {
			continue
		}
		switch {
		case f.Status != "":
			if appt.Status != f.Status {
				continue
			}
		case f.OnlyCancelled:
			if appt.Status != models.StatusCancelled {
				continue
			}
		case f.ExcludeCancelled:
			if appt.Status == models.StatusCancelled {
				continue
			}
		}
		out = append(out, appt)
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Date+out[i].StartTime, out[j].Date+out[j].StartTime
		if f.SortDesc {
			return ki > kj
		}
		return ki < kj
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return r.List(ctx, appointmentRepo.Filter{Date: date})
}

func (r *memRepo) Missed(ctx context.Context, today, now string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, appt := range r.appts {
		if !appt.Status.Active() {
			continue
		}
		if appt.Date < today || (appt.Date == today && appt.EndTime < now) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (r *memRepo) overlapCount(appt models.Appointment, excludeSelf bool) int {
	count := 0
	for _, other := range r.appts {
		if other.Status == models.StatusCancelled || other.Date != appt.Date {
			continue
		}
		if excludeSelf && other.ID == appt.ID {
			continue
		}
		if other.StartTime < appt.EndTime && appt.StartTime < other.EndTime {
			count++
		}
	}
	return count
}

func (r *memRepo) InsertWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapCount(appt, false) >= capacity {
		return appointmentRepo.ErrSlotTaken
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	r.appts[appt.ID] = appt
	return nil
}

func (r *memRepo) UpdateWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[appt.ID]; !ok {
		return appointmentRepo.ErrNotFound
	}
	if r.overlapCount(appt, true) >= capacity {
		return appointmentRepo.ErrSlotTaken
	}
	r.appts[appt.ID] = appt
	return nil
}

func (r *memRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, appt := range r.appts {
		counts[string(appt.Status)]++
	}
	return counts, nil
}

func (r *memRepo) CountOnDate(ctx context.Context, date string, activeOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, appt := range r.appts {
		if appt.Date != date {
			continue
		}
		if activeOnly && !appt.Status.Active() {
			continue
		}
		n++
	}
	return n, nil
}

func (r *memRepo) CountUpcoming(ctx context.Context, fromDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, appt := range r.appts {
		if appt.Date >= fromDate && appt.Status != models.StatusCancelled {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) DistinctPatients(ctx context.Context, fromDate, toDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	for _, appt := range r.appts {
		if appt.Date < fromDate || appt.Date > toDate || appt.Status == models.StatusCancelled {
			continue
		}
		seen[appt.PatientID] = true
	}
	return int64(len(seen)), nil
}

// memDirectory is an in-memory PatientDirectory.
type memDirectory struct {
	patients map[string]*models.Patient
}

func (d *memDirectory) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	p, ok := d.patients[id]
	if !ok {
		return nil, NotFoundError{Entity: "patient", ID: id}
	}
	return p, nil
}

// failingDirectory simulates an infrastructure outage on patient lookups.
type failingDirectory struct{}

func (failingDirectory) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	return nil, errors.New("connection reset")
}

// recordingNotifier captures sent events; when fail is set every send errors.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.EventKind
	fail   bool
}

func (n *recordingNotifier) SendAppointmentEvent(ctx context.Context, patient *models.Patient, appt models.Appointment, kind models.EventKind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unreachable")
	}
	n.events = append(n.events, kind)
	return nil
}

// recordingAudit captures trail entries.
type recordingAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, entry models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

// fixedClock returns a constant time.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(clockTime time.Time) (*DefaultAppointmentService, *memRepo, *recordingNotifier, *recordingAudit) {
	repo := newMemRepo()
	dir := &memDirectory{patients: map[string]*models.Patient{
		"p1": {ID: "p1", FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"},
		"p2": {ID: "p2", FirstName: "Ben", LastName: "Cruz", Email: "ben@example.com"},
	}}
	notifier := &recordingNotifier{}
	audit := &recordingAudit{}
	svc := NewAppointmentService(repo, dir, notifier, audit, fixedClock{now: clockTime}, DefaultPolicy())
	return svc, repo, notifier, audit
}
