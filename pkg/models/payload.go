package models

import "sort"

// AutomationPayload is the exact wire shape the persistence gateway
// speaks. Field names follow the legacy CRM API contract (Italian keys
// for the base attributes). Unlike the in-memory model, each step carries
// an explicit order integer.
type AutomationPayload struct {
	ID                    string         `json:"id,omitempty"`
	Name                  string         `json:"nome"`
	Description           string         `json:"descrizione"`
	Kind                  AutomationKind `json:"tipo"`
	Enabled               bool           `json:"abilitata"`
	TriggerType           string         `json:"trigger_type"`
	TriggerConfig         map[string]any `json:"trigger_config"`
	Steps                 []StepPayload  `json:"steps"`
	SequenceExitOnReply   bool           `json:"sequence_exit_on_reply"`
	SequenceExitOnConvert bool           `json:"sequence_exit_on_convert"`
}

// StepPayload is the persisted form of a step. Order is recomputed from
// the in-memory slice index immediately before serialization.
type StepPayload struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
	Order  int            `json:"order"`
}

// ToPayload produces the persistable wire form of the automation. Each
// step's order is set to its slice index (0..n-1, no gaps).
func (a *Automation) ToPayload() *AutomationPayload {
	steps := make([]StepPayload, 0, len(a.Steps))
	for i, step := range a.Steps {
		steps = append(steps, StepPayload{
			ID:     step.ID,
			Type:   step.Type,
			Config: step.Config,
			Order:  i,
		})
	}

	triggerConfig := a.Trigger.Config
	if triggerConfig == nil {
		triggerConfig = map[string]any{}
	}

	return &AutomationPayload{
		ID:                    a.ID,
		Name:                  a.Name,
		Description:           a.Description,
		Kind:                  a.Kind,
		Enabled:               a.Enabled,
		TriggerType:           a.Trigger.Type,
		TriggerConfig:         triggerConfig,
		Steps:                 steps,
		SequenceExitOnReply:   a.SequenceExitOnReply,
		SequenceExitOnConvert: a.SequenceExitOnConvert,
	}
}

// FromPayload builds an automation from its persisted form. Steps are
// sorted by the stored order field, which is then dropped: from here on
// the slice index is the order.
func FromPayload(payload *AutomationPayload) *Automation {
	stepPayloads := make([]StepPayload, len(payload.Steps))
	copy(stepPayloads, payload.Steps)
	sort.SliceStable(stepPayloads, func(i, j int) bool {
		return stepPayloads[i].Order < stepPayloads[j].Order
	})

	steps := make([]*Step, 0, len(stepPayloads))
	for _, sp := range stepPayloads {
		config := sp.Config
		if config == nil {
			config = map[string]any{}
		}

		steps = append(steps, &Step{ID: sp.ID, Type: sp.Type, Config: config})
	}

	triggerConfig := payload.TriggerConfig
	if triggerConfig == nil {
		triggerConfig = map[string]any{}
	}

	kind := payload.Kind
	if kind == "" {
		kind = AutomationKindGeneric
	}

	return &Automation{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Kind:        kind,
		Enabled:     payload.Enabled,
		Trigger: Trigger{
			Type:   payload.TriggerType,
			Config: triggerConfig,
		},
		Steps:                 steps,
		SequenceExitOnReply:   payload.SequenceExitOnReply,
		SequenceExitOnConvert: payload.SequenceExitOnConvert,
	}
}
