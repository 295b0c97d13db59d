// Package models defines the core domain models for sponsorship automations.
package models

import "time"

// AutomationKind selects which exit-condition fields are relevant.
// It does not change the step model.
type AutomationKind string

const (
	AutomationKindGeneric       AutomationKind = "generic_workflow"
	AutomationKindEmailSequence AutomationKind = "email_sequence"
)

// Trigger is the event selection that starts an automation. An empty Type
// means no trigger has been chosen yet; Config keys must stay within the
// schema declared by the registry for the chosen type.
type Trigger struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// Automation represents one automation definition: a trigger plus an
// ordered list of steps. Step order is the slice order; the persisted
// per-step order integer is derived from it at save time.
type Automation struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"        validate:"required"`
	Description           string         `json:"description"`
	Kind                  AutomationKind `json:"kind"        validate:"required,oneof=generic_workflow email_sequence"`
	Enabled               bool           `json:"enabled"`
	Trigger               Trigger        `json:"trigger"`
	Steps                 []*Step        `json:"steps"`
	SequenceExitOnReply   bool           `json:"sequence_exit_on_reply"`
	SequenceExitOnConvert bool           `json:"sequence_exit_on_convert"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// NewAutomation returns an empty, disabled automation with no trigger and
// no steps. It must be explicitly enabled after configuration.
func NewAutomation() *Automation {
	return &Automation{
		Kind:    AutomationKindGeneric,
		Enabled: false,
		Trigger: Trigger{Config: map[string]any{}},
		Steps:   []*Step{},
	}
}

// StepByID returns the step with the given id and its position, or
// (nil, -1) when absent.
func (a *Automation) StepByID(id string) (*Step, int) {
	for i, step := range a.Steps {
		if step.ID == id {
			return step, i
		}
	}

	return nil, -1
}

// HasStepID reports whether a step with the given id exists.
func (a *Automation) HasStepID(id string) bool {
	_, idx := a.StepByID(id)

	return idx >= 0
}

// HasTrigger reports whether a trigger type has been selected.
func (a *Automation) HasTrigger() bool {
	return a.Trigger.Type != ""
}
