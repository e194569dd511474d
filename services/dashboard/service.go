package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	appointmentRepo "clinicore/database/repository/appointment"
	inquiryRepo "clinicore/database/repository/inquiry"
	noteRepo "clinicore/database/repository/notes"
	patientRepo "clinicore/database/repository/patient"
	"clinicore/models"
	"clinicore/services/scheduling"
)

// trendDays is the span of the revenue trend, today included.
const trendDays = 90

// Service assembles the back-office landing-page snapshot.
type Service interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error)
}

// DefaultService implements Service by fanning out to the entity
// repositories.
type DefaultService struct {
	appts     appointmentRepo.AppointmentRepository
	patients  patientRepo.PatientRepository
	inquiries inquiryRepo.InquiryRepository
	notes     noteRepo.NoteRepository
	clock     scheduling.Clock
}

// NewService returns the dashboard service.
func NewService(
	appts appointmentRepo.AppointmentRepository,
	patients patientRepo.PatientRepository,
	inquiries inquiryRepo.InquiryRepository,
	notes noteRepo.NoteRepository,
	clock scheduling.Clock,
) *DefaultService {
	if clock == nil {
		clock = scheduling.SystemClock()
	}
	return &DefaultService{appts: appts, patients: patients, inquiries: inquiries, notes: notes, clock: clock}
}

// Stats gathers the aggregate counts. Queries run sequentially; the handler
// caches nothing, the numbers are always live.
func (s *DefaultService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.clock.Now()
	today := now.Format("2006-01-02")
	stats := &models.DashboardStats{}

	total, err := s.patients.Count(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.TotalPatients = total

	active, err := s.patients.Count(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.ActivePatients = active

	monthStart, nextMonth := monthBounds(now)
	visitors, err := s.appts.DistinctPatients(ctx,
		monthStart.Format("2006-01-02"), nextMonth.AddDate(0, 0, -1).Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.MonthlyVisitors = visitors

	onDate, err := s.appts.CountOnDate(ctx, today, true)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.AppointmentsToday = onDate

	upcoming, err := s.appts.CountUpcoming(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.AppointmentsUpcoming = upcoming

	byStatus, err := s.appts.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.AppointmentsByStatus = byStatus

	inq, err := s.inquiries.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.UnreadInquiries = inq.Unread

	revenue, growth, err := s.monthlyRevenue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stats.MonthlyRevenue = revenue
	stats.RevenueGrowthRate = growth

	return stats, nil
}

// monthlyRevenue returns the current month's paid total and its growth rate
// against the previous month: ((current-last)/last)*100, 100 when last month
// was zero but this month is not, 0 when both are zero.
func (s *DefaultService) monthlyRevenue(ctx context.Context, now time.Time) (float64, float64, error) {
	monthStart, nextMonth := monthBounds(now)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	current, err := s.notes.RevenueBetween(ctx, monthStart, nextMonth.Add(-time.Nanosecond))
	if err != nil {
		return 0, 0, err
	}
	previous, err := s.notes.RevenueBetween(ctx, lastMonthStart, monthStart.Add(-time.Nanosecond))
	if err != nil {
		return 0, 0, err
	}

	var growth float64
	switch {
	case previous > 0:
		growth = (current - previous) / previous * 100
	case current > 0:
		growth = 100
	}
	return current, round2(growth), nil
}

// RevenueTrend returns paid revenue per day over the trailing window, oldest
// first, with zero-revenue days filled in.
func (s *DefaultService) RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error) {
	now := s.clock.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	first := end.AddDate(0, 0, -(trendDays - 1))
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, now.Location())

	byDay, err := s.notes.RevenueByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	trend := make([]models.RevenuePoint, 0, trendDays)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		trend = append(trend, models.RevenuePoint{Date: day, Revenue: byDay[day]})
	}
	return trend, nil
}

func monthBounds(now time.Time) (start, next time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
