package notification

import (
	"fmt"

	"clinicore/config"
	"clinicore/models"
)

// buildAppointmentEmail renders the subject and body for one lifecycle event.
// Wording lives here so the scheduling core stays free of copy.
func buildAppointmentEmail(patient *models.Patient, appt models.Appointment, kind models.EventKind) models.EmailPayload {
	clinic := config.AppConfig.ClinicName
	window := fmt.Sprintf("%s from %s to %s", appt.Date, appt.StartTime, appt.EndTime)

	var subject, lead string
	switch kind {
	case models.EventCreated:
		subject = "Appointment received"
		lead = fmt.Sprintf("We have received your appointment \"%s\" on %s.", appt.Title, window)
	case models.EventApproved:
		subject = "Appointment confirmed"
		lead = fmt.Sprintf("Your appointment \"%s\" on %s has been confirmed.", appt.Title, window)
	case models.EventRescheduled:
		subject = "Appointment rescheduled"
		lead = fmt.Sprintf("Your appointment \"%s\" has been moved to %s.", appt.Title, window)
	case models.EventCompleted:
		subject = "Appointment completed"
		lead = fmt.Sprintf("Thank you for visiting us. Your appointment \"%s\" on %s is complete.", appt.Title, window)
	case models.EventCancelled:
		subject = "Appointment cancelled"
		lead = fmt.Sprintf("Your appointment \"%s\" on %s has been cancelled.", appt.Title, window)
		if appt.CancellationReason != "" {
			lead += " Reason: " + appt.CancellationReason + "."
		}
	case models.EventMissed:
		subject = "Missed appointment"
		lead = fmt.Sprintf("Your appointment \"%s\" on %s was missed and has been cancelled. Please contact us to rebook.", appt.Title, window)
	default:
		subject = "Appointment update"
		lead = fmt.Sprintf("There is an update on your appointment \"%s\" on %s.", appt.Title, window)
	}

	body := fmt.Sprintf("Dear %s,\n\n%s\n\nRegards,\n%s", patient.FullName(), lead, clinic)
	return models.EmailPayload{
		To:      patient.Email,
		Subject: fmt.Sprintf("[%s] %s", clinic, subject),
		Body:    body,
	}
}

// buildReplyEmail renders the admin's reply to a contact-form inquiry.
func buildReplyEmail(inq models.Inquiry, message string) models.EmailPayload {
	clinic := config.AppConfig.ClinicName
	body := fmt.Sprintf("Dear %s,\n\nRegarding your inquiry \"%s\":\n\n%s\n\nRegards,\n%s",
		inq.FullName, inq.Subject, message, clinic)
	return models.EmailPayload{
		To:      inq.Email,
		Subject: fmt.Sprintf("[%s] Re: %s", clinic, inq.Subject),
		Body:    body,
	}
}
