package models

import "time"

// Audit actions. These mirror the back-office operations that must leave a
// trail; handlers always log through the audit service, never directly.
const (
	ActionAppointmentCreated     = "APPOINTMENT_CREATED"
	ActionAppointmentRequested   = "APPOINTMENT_REQUESTED"
	ActionAppointmentUpdated     = "APPOINTMENT_UPDATED"
	ActionAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	ActionAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	ActionAppointmentCompleted   = "APPOINTMENT_COMPLETED"
	ActionAppointmentMissed      = "APPOINTMENT_MISSED"

	ActionPatientCreated     = "PATIENT_CREATED"
	ActionPatientUpdated     = "PATIENT_UPDATED"
	ActionPatientDeactivated = "PATIENT_DEACTIVATED"
	ActionPatientRestored    = "PATIENT_RESTORED"
	ActionPatientHardDeleted = "PATIENT_HARD_DELETED"

	ActionInquiryStatusUpdated = "INQUIRY_STATUS_UPDATED"
	ActionInquiryArchived      = "INQUIRY_ARCHIVED"
	ActionInquiryRestored      = "INQUIRY_RESTORED"
	ActionInquiryReplied       = "INQUIRY_REPLIED"
	ActionInquiryDeleted       = "INQUIRY_DELETED"

	ActionLogin           = "LOGIN"
	ActionLogout          = "LOGOUT"
	ActionPasswordChanged = "PASSWORD_CHANGED"
)

// AuditLog is one immutable trail entry. ActorID is empty for public actions,
// in which case ActorName defaults to "Public User".
type AuditLog struct {
	ID          string         `bson:"id" json:"id"`
	ActorID     string         `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	ActorName   string         `bson:"actor_name" json:"actorName"`
	Action      string         `bson:"action" json:"action"`
	EntityType  string         `bson:"entity_type" json:"entityType"` // appointment, patient, inquiry, admin, system
	EntityID    string         `bson:"entity_id,omitempty" json:"entityId,omitempty"`
	EntityName  string         `bson:"entity_name,omitempty" json:"entityName,omitempty"`
	Description string         `bson:"description" json:"description"`
	Details     map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
}

// LogStats summarizes trail volume for the dashboard.
type LogStats struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByAction map[string]int64 `json:"byAction"`
}
