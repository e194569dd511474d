package scheduling

import "clinicore/models"

// Lifecycle rules.
//
// An explicitly supplied status always overrides the implicit date/time-driven
// transition. When only the slot changes, the next status follows from the
// current one: Pending becomes Scheduled (the clinic approved the requested
// slot), Scheduled becomes Rescheduled, Finished becomes Rescheduled (a
// follow-up), and Rescheduled stays Rescheduled. Cancelled is terminal; it is
// handled before this table is consulted.

// implicitNext maps the current status to the one that a date/time change
// implies.
func implicitNext(current models.AppointmentStatus) models.AppointmentStatus {
	switch current {
	case models.StatusPending:
		return models.StatusScheduled
	case models.StatusScheduled, models.StatusFinished, models.StatusRescheduled:
		return models.StatusRescheduled
	default:
		return current
	}
}

// NextStatus resolves the status an update leaves the appointment in.
// explicit is the status supplied in the patch (nil when absent); slotChanged
// reports whether any of date/startTime/endTime changed in the same request.
func NextStatus(current models.AppointmentStatus, explicit *models.AppointmentStatus, slotChanged bool) (models.AppointmentStatus, error) {
	if explicit != nil {
		if !explicit.Valid() {
			return current, ValidationError{Field: "status", Reason: "unknown status " + string(*explicit)}
		}
		return *explicit, nil
	}
	if slotChanged {
		return implicitNext(current), nil
	}
	return current, nil
}

// eventFor maps a status transition to the notification event it should emit.
// A zero EventKind means no notification.
func eventFor(prev, next models.AppointmentStatus) models.EventKind {
	if prev == next {
		return ""
	}
	switch next {
	case models.StatusScheduled:
		if prev == models.StatusPending {
			return models.EventApproved
		}
		return models.EventRescheduled
	case models.StatusRescheduled:
		return models.EventRescheduled
	case models.StatusFinished:
		return models.EventCompleted
	case models.StatusCancelled:
		return models.EventCancelled
	}
	return ""
}
