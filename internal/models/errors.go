package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDebtNotFound is returned when a debt does not exist
	ErrDebtNotFound = errors.New("debt not found")

	// ErrAccessDenied is returned when a debt belongs to another user
	ErrAccessDenied = errors.New("access denied")

	// ErrDebtChanged is returned when a debt was modified after it was read
	ErrDebtChanged = errors.New("debt was modified concurrently")

	// ErrDebtPaidOff is returned when a payment is applied to a debt with no balance left
	ErrDebtPaidOff = errors.New("debt is already paid off")

	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username or email is already taken
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is the sentinel every ValidationError unwraps to
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
