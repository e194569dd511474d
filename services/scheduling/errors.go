package scheduling

import "fmt"

// NotFoundError signals that a referenced patient or appointment does not
// exist. It maps to a 404 at the HTTP layer and is never retried.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError signals that the requested slot is unavailable. The caller
// may retry with a different slot.
type ConflictError struct {
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

func (e ConflictError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("slot %s %s-%s is not available", e.Date, e.StartTime, e.EndTime)
}

// ValidationError signals malformed input, rejected before any availability
// check runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
