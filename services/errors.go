package services

import "errors"

// ValidationError carries a human-readable reason the caller can show
// directly. Nothing is persisted when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrTargetNotFound     = errors.New("target not found")
	ErrChallengeActive    = errors.New("challenge has not ended yet")
)
