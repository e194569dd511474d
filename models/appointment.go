package models

import "time"

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "Pending"
	StatusScheduled   AppointmentStatus = "Scheduled"
	StatusRescheduled AppointmentStatus = "Rescheduled"
	StatusFinished    AppointmentStatus = "Finished"
	StatusCancelled   AppointmentStatus = "Cancelled"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusRescheduled, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions. Cancelled is the
// only terminal status; appointments are never physically deleted.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled
}

// Active reports whether s counts as a live booking awaiting its window.
// Finished appointments are not active but are also not swept.
func (s AppointmentStatus) Active() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusRescheduled:
		return true
	}
	return false
}

// Appointment is a booked slot for a patient. Date is a time-zone-naive civil
// date ("2006-01-02"); StartTime/EndTime are zero-padded 24-hour "HH:mm" on
// that same date, so lexicographic comparison orders them correctly.
type Appointment struct {
	ID                 string            `bson:"id" json:"id"`
	PatientID          string            `bson:"patient_id" json:"patientId"`
	Date               string            `bson:"date" json:"date"`
	StartTime          string            `bson:"start_time" json:"startTime"`
	EndTime            string            `bson:"end_time" json:"endTime"`
	Title              string            `bson:"title" json:"title"`
	Status             AppointmentStatus `bson:"status" json:"status"`
	CancellationReason string            `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updatedAt"`
}

// AppointmentPatch carries the optional fields of an appointment update.
// Nil means "leave unchanged". An explicit Status always wins over the
// implicit date/time-driven transition.
type AppointmentPatch struct {
	Date               *string            `json:"date,omitempty"`
	StartTime          *string            `json:"startTime,omitempty"`
	EndTime            *string            `json:"endTime,omitempty"`
	Title              *string            `json:"title,omitempty"`
	Status             *AppointmentStatus `json:"status,omitempty"`
	CancellationReason *string            `json:"cancellationReason,omitempty"`
}

// HasSlotChange reports whether the patch touches any of the slot fields.
func (p AppointmentPatch) HasSlotChange() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil
}
