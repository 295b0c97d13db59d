// Package web provides the REST API for automation management.
package web

import "github.com/sponsorlab/sponsorflow/pkg/models"

// StepRequest is one step in a save request. Order is the persisted
// position; the server re-derives it from the slice on save.
type StepRequest struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"   validate:"required"`
	Config map[string]any `json:"config"`
	Order  int            `json:"order"  validate:"min=0"`
}

// SaveAutomationRequest is the request body for creating or replacing an
// automation. Field names follow the legacy CRM wire contract. Domain
// rules (mandatory name, trigger, step completeness) are checked by the
// validation package and reported as 422; the struct tags here only
// reject malformed shapes.
type SaveAutomationRequest struct {
	Name                  string         `json:"nome"`
	Description           string         `json:"descrizione"`
	Kind                  string         `json:"tipo"          validate:"omitempty,oneof=generic_workflow email_sequence"`
	Enabled               bool           `json:"abilitata"`
	TriggerType           string         `json:"trigger_type"`
	TriggerConfig         map[string]any `json:"trigger_config"`
	Steps                 []StepRequest  `json:"steps"         validate:"dive"`
	SequenceExitOnReply   bool           `json:"sequence_exit_on_reply"`
	SequenceExitOnConvert bool           `json:"sequence_exit_on_convert"`
}

func (r SaveAutomationRequest) toAutomation() *models.Automation {
	steps := make([]models.StepPayload, 0, len(r.Steps))
	for _, step := range r.Steps {
		steps = append(steps, models.StepPayload{
			ID:     step.ID,
			Type:   step.Type,
			Config: step.Config,
			Order:  step.Order,
		})
	}

	return models.FromPayload(&models.AutomationPayload{
		Name:                  r.Name,
		Description:           r.Description,
		Kind:                  models.AutomationKind(r.Kind),
		Enabled:               r.Enabled,
		TriggerType:           r.TriggerType,
		TriggerConfig:         r.TriggerConfig,
		Steps:                 steps,
		SequenceExitOnReply:   r.SequenceExitOnReply,
		SequenceExitOnConvert: r.SequenceExitOnConvert,
	})
}

// TestRunRequest is the optional body of a test-run dispatch.
type TestRunRequest struct {
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

// MetaResponse feeds the editor's palette at startup.
type MetaResponse struct {
	TriggerTypes []*models.Component `json:"trigger_types"`
	ActionTypes  []*models.Component `json:"action_types"`
}
