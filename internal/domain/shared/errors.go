// Package shared contains common domain types, errors and events
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Storage errors
	ErrStorage = errors.New("storage error")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "auth", "progress", "vault"
	Op      string // Operation that failed, e.g., "Signup", "StartProgram"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching. Two DomainErrors match when they share
// domain, operation and kind, so wrapped copies of a named error still match it.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) && de != nil {
		if de.Domain == e.Domain && de.Op == e.Op && de.Kind == e.Kind && de.Message == e.Message {
			return true
		}
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// Wrap returns a copy of the error carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	c := *e
	c.Err = err
	return &c
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Store errors
var (
	ErrDocumentUnreadable = NewDomainError("store", "Load", ErrStorage, "document could not be read")
)

// Auth domain errors
var (
	ErrEmailExists       = NewDomainError("auth", "Signup", ErrAlreadyExists, "email already registered")
	ErrRegistration      = NewDomainError("auth", "Signup", ErrInvalidInput, "registration failed")
	ErrNoSession         = NewDomainError("auth", "CurrentUser", ErrUnauthorized, "no active session")
	ErrInvalidAssessment = NewDomainError("auth", "AttachAssessment", ErrValidation, "invalid assessment")
)

// Progress domain errors
var (
	ErrAssessmentRequired = NewDomainError("progress", "StartProgram", ErrInvalidState, "assessment required before starting the program")
	ErrNegativeMinutes    = NewDomainError("progress", "AddStudyMinutes", ErrNegativeValue, "study minutes cannot be negative")
	ErrEmptyTaskID        = NewDomainError("progress", "CompleteTask", ErrEmptyValue, "task id cannot be empty")
	ErrUnknownTask        = NewDomainError("progress", "CompleteTask", ErrNotFound, "no such task today")
	ErrEmptyRevision      = NewDomainError("progress", "ScheduleRevision", ErrEmptyValue, "subject and topic are required")
)

// Vault domain errors
var (
	ErrNoteNotFound     = NewDomainError("vault", "DeleteNote", ErrNotFound, "note not found")
	ErrResourceNotFound = NewDomainError("vault", "RemoveResource", ErrNotFound, "resource not found")
	ErrEmptyNote        = NewDomainError("vault", "SaveNote", ErrEmptyValue, "note title or content required")
	ErrInvalidResource  = NewDomainError("vault", "AddResource", ErrInvalidInput, "resource needs a title and a link")
)

// Settings domain errors
var (
	ErrInvalidPreferences = NewDomainError("settings", "Save", ErrInvalidInput, "invalid preferences")
	ErrEmptyName          = NewDomainError("settings", "UpdateProfileName", ErrEmptyValue, "name cannot be empty")
)

// Coach / external service errors
var (
	ErrCoachUnavailable = NewDomainError("coach", "Request", ErrServiceUnavailable, "coach model is unavailable")
	ErrCoachDisabled    = NewDomainError("coach", "Request", ErrForbidden, "coach is disabled")
	ErrCoachBadResponse = NewDomainError("coach", "Parse", ErrInvalidFormat, "invalid response from coach model")
	ErrEmptyMessage     = NewDomainError("coach", "Send", ErrEmptyValue, "message cannot be empty")
)

// Notification errors
var (
	ErrNotificationFailed   = NewDomainError("notification", "Send", ErrExternalService, "failed to send notification")
	ErrNotificationDisabled = NewDomainError("notification", "Check", ErrForbidden, "notifications disabled by user")
)

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
