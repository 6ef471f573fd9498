package services

import (
	"errors"
	"strings"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// kindError is a client-facing message that unwraps to one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrEmailTaken          = newKind(ErrConflict, "User with this email already exists")
	ErrAlreadyApplied      = newKind(ErrConflict, "You have already applied for this job")
	ErrUserNotFound        = newKind(ErrNotFound, "User not found")
	ErrJobNotFound         = newKind(ErrNotFound, "Job not found")
	ErrApplicationNotFound = newKind(ErrNotFound, "Application not found")
	ErrJobNotActive        = newKind(ErrInvalidState, "This job is no longer accepting applications")
)

// Forbidden returns an ErrForbidden with a specific message.
func Forbidden(msg string) error {
	return newKind(ErrForbidden, msg)
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation failed"
	}
	return "Validation failed: " + strings.Join(e.Fields, "; ")
}

// Invalid builds a ValidationError, or nil when fields is empty.
func Invalid(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
