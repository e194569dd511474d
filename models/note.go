package models

import "time"

// NotePayment records the billing state attached to a clinical note.
type NotePayment struct {
	Amount float64 `bson:"amount" json:"amount"`
	Status string  `bson:"status" json:"status"` // Paid, Pending, Partial
}

// Note is the clinical record written after an appointment.
type Note struct {
	ID             string      `bson:"id" json:"id"`
	AppointmentID  string      `bson:"appointment_id" json:"appointmentId"`
	PatientID      string      `bson:"patient_id" json:"patientId"`
	TreatmentNotes string      `bson:"treatment_notes" json:"treatmentNotes"`
	ReminderNotes  string      `bson:"reminder_notes,omitempty" json:"reminderNotes,omitempty"`
	Payment        NotePayment `bson:"payment" json:"payment"`
	CreatedBy      string      `bson:"created_by" json:"createdBy"`
	CreatedAt      time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updated_at" json:"updatedAt"`
}
