package models

// EventKind tags an appointment lifecycle event for the notification layer.
// The scheduling core only ever emits one of these tags; message wording is
// the sender's business.
type EventKind string

const (
	EventCreated     EventKind = "Created"
	EventApproved    EventKind = "Approved"
	EventRescheduled EventKind = "Rescheduled"
	EventCompleted   EventKind = "Completed"
	EventCancelled   EventKind = "Cancelled"
	EventMissed      EventKind = "Missed"
)

// EmailPayload is the asynq task payload for one outbound email.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
