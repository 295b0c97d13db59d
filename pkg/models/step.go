package models

import "github.com/google/uuid"

// Step is one unit of work within an automation. Its type is drawn from
// the step type registry; Config keys are defined by that type's schema.
// A step's position in the automation is not stored on the step itself.
type Step struct {
	ID     string         `json:"id"     validate:"required"`
	Type   string         `json:"type"   validate:"required"`
	Config map[string]any `json:"config"`
}

// NewStep creates a step of the given type with a fresh unique id and an
// empty configuration. Ids are random UUIDs so rapid programmatic
// insertion cannot collide the way wall-clock ids would.
func NewStep(stepType string) *Step {
	return &Step{
		ID:     uuid.NewString(),
		Type:   stepType,
		Config: map[string]any{},
	}
}
