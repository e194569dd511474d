package handlers

// HandlerBundle groups every HTTP handler so route registration takes one
// argument.
type HandlerBundle struct {
	Appointments *AppointmentHandler
	Patients     *PatientHandler
	Inquiries    *InquiryHandler
	Notes        *NoteHandler
	Admins       *AdminHandler
	Logs         *LogHandler
	Dashboard    *DashboardHandler
}
