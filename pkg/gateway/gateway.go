// Package gateway is the client side of the automation REST contract.
// The editor UI and the log viewer go through it instead of talking to
// the backend directly.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/validation"
)

// ErrNotFound is returned when the backend reports a missing automation
// or execution.
var ErrNotFound = errors.New("not found")

// Gateway is the persistence boundary of the editing session. Exactly
// these five operations exist; everything else stays client-side.
type Gateway interface {
	LoadAutomation(ctx context.Context, id string) (*models.Automation, error)
	// SaveAutomation creates when the automation has no id yet and
	// updates otherwise. On success it returns the stored automation,
	// ids and timestamps filled in. On failure the caller's in-memory
	// automation is untouched.
	SaveAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error)
	ListExecutions(ctx context.Context, automationID string, perPage int) (*ExecutionList, error)
	ExecutionDetail(ctx context.Context, executionID string) (*models.Execution, error)
	TestRun(ctx context.Context, automationID string) error
}

// ExecutionList is one page of the execution log.
type ExecutionList struct {
	Executions  []*models.Execution `json:"executions"`
	TotalCount  int64               `json:"total_count"`
	HasNextPage bool                `json:"has_next_page"`
}

// TransportError wraps any failure to reach the backend or an unexpected
// status code.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError carries the field-level failures of a save the backend
// refused.
type RejectedError struct {
	Errors []validation.FieldError
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("automation rejected with %d validation error(s)", len(e.Errors))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsRejected extracts the validation failures from a refused save.
func AsRejected(err error) (*RejectedError, bool) {
	var target *RejectedError
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}
