package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the report does not exist; nothing was mutated.
	ErrNotFound = errors.New("report not found")
	// ErrAlreadyProcessed means the report left PENDING before this call;
	// the attempted transition mutated nothing.
	ErrAlreadyProcessed = errors.New("report already processed")
	// ErrDailyLimit means the submitter hit the per-day cap.
	ErrDailyLimit = errors.New("daily submission limit reached")
)

// ValidationError flags malformed input, rejected before any persistence.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
