package models

// DashboardStats is the aggregate snapshot served to the back-office landing
// page. Revenue figures cover the current calendar month; the growth rate is
// month-over-month against the previous one.
type DashboardStats struct {
	TotalPatients        int64            `json:"totalPatients"`
	ActivePatients       int64            `json:"activePatients"`
	MonthlyVisitors      int64            `json:"monthlyVisitors"`
	AppointmentsToday    int64            `json:"appointmentsToday"`
	AppointmentsUpcoming int64            `json:"appointmentsUpcoming"`
	AppointmentsByStatus map[string]int64 `json:"appointmentsByStatus"`
	UnreadInquiries      int64            `json:"unreadInquiries"`
	MonthlyRevenue       float64          `json:"monthlyRevenue"`
	RevenueGrowthRate    float64          `json:"revenueGrowthRate"`
}

// RevenuePoint is one day of the revenue trend.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}
