// Package services provides the business logic layer between the HTTP
// handlers and the persistence and messaging infrastructure.
package services

import (
	"errors"
	"fmt"

	"github.com/sponsorlab/sponsorflow/pkg/persistence"
	"github.com/sponsorlab/sponsorflow/pkg/validation"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrAutomationNil    = errors.New("automation cannot be nil")

	ErrAutomationNotFound = persistence.ErrAutomationNotFound
	ErrExecutionNotFound  = persistence.ErrExecutionNotFound
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationFailedError carries the full set of field-level failures
// found when an automation was rejected before save.
type ValidationFailedError struct {
	Result validation.Result
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("automation validation failed with %d error(s)", len(e.Result.Errors))
}

// AsValidationFailed extracts a ValidationFailedError if err carries one.
func AsValidationFailed(err error) (*ValidationFailedError, bool) {
	var target *ValidationFailedError
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}

// IsValidationError checks if an error is a validation error that should
// return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrAutomationNil)
}

// IsNotFound checks if an error maps to HTTP 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAutomationNotFound) ||
		errors.Is(err, ErrExecutionNotFound)
}
