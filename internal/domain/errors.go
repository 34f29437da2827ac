package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput wraps every shape/validation failure so adapters can map it to 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUser is returned when the normalized email already has a credential record.
	ErrDuplicateUser = errors.New("duplicate user")
	ErrUserNotFound  = errors.New("user not found")
	// ErrInvalidPassword is reported separately from ErrUserNotFound on login.
	ErrInvalidPassword     = errors.New("invalid password")
	ErrNotVerified         = errors.New("email not verified")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	ErrAlreadyVerified     = errors.New("already verified")
	ErrInvalidToken        = errors.New("invalid token")
	ErrRateLimited         = errors.New("rate limited")
	ErrEmailDelivery       = errors.New("email delivery failed")
	ErrNotFound            = errors.New("resource not found")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field failures for a single request.
// It unwraps to ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
