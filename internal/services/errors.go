package services

import (
	"errors"
	"fmt"

	"pgpathfinder/internal/repositories"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRateLimited       = errors.New("too many requests")

	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
	ErrNoValidFields      = &ValidationError{Field: "body", Message: "no valid fields to update"}
)

// ValidationError names the offending field. It matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// repoError translates repository sentinels for the given resource
func repoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s: %w", resource, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%s: %w", resource, ErrConflict)
	}
	return err
}
