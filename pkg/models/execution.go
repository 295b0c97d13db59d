package models

import "time"

// ExecutionStatus is the lifecycle state of one automation run. The
// external executor owns the lifecycle; this service only reads it.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// ExecutionStepStatus is the outcome of one step within a run.
type ExecutionStepStatus string

const (
	ExecutionStepStatusPending ExecutionStepStatus = "pending"
	ExecutionStepStatusSuccess ExecutionStepStatus = "success"
	ExecutionStepStatusFailed  ExecutionStepStatus = "failed"
	ExecutionStepStatusSkipped ExecutionStepStatus = "skipped"
)

// ExecutionStep records the per-step outcome of a run.
type ExecutionStep struct {
	StepType     string              `json:"step_type"`
	Status       ExecutionStepStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// Execution is one historical run of an automation. Steps are empty in
// list responses and populated in the detail view.
type Execution struct {
	ID           string           `json:"id"`
	AutomationID string           `json:"automation_id"`
	Status       ExecutionStatus  `json:"status"`
	StartedAt    time.Time        `json:"started_at"`
	Steps        []*ExecutionStep `json:"steps,omitempty"`
}
