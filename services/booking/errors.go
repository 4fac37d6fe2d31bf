package booking

import "fmt"

// ValidationError reports malformed input. The caller can recover by
// correcting the request; retrying unchanged never helps.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// InvalidStateError reports a transition that is illegal from the booking's
// current status. No retry helps without an external state change.
type InvalidStateError struct {
	BookingID string
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("booking %s: cannot %s from status %q", e.BookingID, e.Attempted, e.Current)
}

// ConflictError reports a lost concurrent-write race: another actor claimed
// the booking first. The caller may retry against a fresh read.
type ConflictError struct {
	BookingID string
	Message   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking %s: conflict: %s", e.BookingID, e.Message)
}

// AuthorizationError reports that the actor's role or identity does not
// permit the requested action.
type AuthorizationError struct {
	ActorID string
	Action  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("actor %s is not permitted to %s", e.ActorID, e.Action)
}

// NotFoundError reports that a booking or contractor ID resolved to nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
