package report

import "errors"

// ErrTransitionNotAllowed is returned when the active policy forbids a status change.
var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// ValidationError names the first unmet constraint of a report payload.
// Message is human readable and shown to the submitter as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
