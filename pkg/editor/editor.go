// Package editor implements the mutation operations of an automation
// editing session: step insertion, removal, drag-and-drop reordering,
// per-step configuration patching and trigger selection. All operations
// run synchronously over the single automation owned by the session.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
)

var (
	// ErrNoTriggerSelected is returned when trigger config is patched
	// before a trigger type has been chosen.
	ErrNoTriggerSelected = errors.New("no trigger type selected")

	// ErrInvalidConfigKey is returned when a trigger config key is not
	// declared by the selected trigger's schema.
	ErrInvalidConfigKey = errors.New("config key not declared by trigger schema")
)

// Editor mutates one automation in place. The presentation layer holds
// exactly one Editor per editing session and re-renders after each call.
type Editor struct {
	automation *models.Automation
	registry   *registry.Registry
	logger     *slog.Logger
}

func New(automation *models.Automation, reg *registry.Registry, logger *slog.Logger) *Editor {
	return &Editor{
		automation: automation,
		registry:   reg,
		logger:     logger,
	}
}

// Automation returns the definition this editor operates on.
func (e *Editor) Automation() *models.Automation {
	return e.automation
}

// InsertStep creates a step of the given type with a fresh unique id and
// empty config, and splices it into the list at the given index. The
// index is clamped to [0, len], so an index beyond the current length
// appends ("add step after the last one" is the common case). The new
// step is returned so the caller can open its configuration panel.
func (e *Editor) InsertStep(stepType string, at int) *models.Step {
	step := models.NewStep(stepType)
	if e.automation.HasStepID(step.ID) {
		// Ids are random UUIDs; a collision means the generator is broken.
		panic(fmt.Sprintf("duplicate step id generated: %s", step.ID))
	}

	at = clamp(at, 0, len(e.automation.Steps))

	steps := e.automation.Steps
	steps = append(steps, nil)
	copy(steps[at+1:], steps[at:])
	steps[at] = step
	e.automation.Steps = steps

	return step
}

// RemoveStep deletes the step with the given id. Removing an unknown id
// is a no-op by design (the panel may race a stale list); it returns
// false and logs for diagnostics. Order needs no renumbering since it is
// index-derived.
func (e *Editor) RemoveStep(stepID string) bool {
	_, idx := e.automation.StepByID(stepID)
	if idx < 0 {
		e.logger.Debug("Remove requested for unknown step", "step_id", stepID)

		return false
	}

	e.automation.Steps = append(e.automation.Steps[:idx], e.automation.Steps[idx+1:]...)

	return true
}

// MoveStep reorders the list by removing the element at from and
// re-inserting it at to in the resulting slice (splice semantics, not a
// swap). Both indices are clamped instead of rejected: drag events can
// report stale positions during fast gestures and must never throw.
// Moving a step onto its own index is a no-op.
func (e *Editor) MoveStep(from, to int) {
	steps := e.automation.Steps
	if len(steps) < 2 {
		return
	}

	from = clamp(from, 0, len(steps)-1)
	to = clamp(to, 0, len(steps)-1)

	if from == to {
		return
	}

	step := steps[from]
	steps = append(steps[:from], steps[from+1:]...)

	steps = append(steps, nil)
	copy(steps[to+1:], steps[to:])
	steps[to] = step
	e.automation.Steps = steps
}

// PatchStepConfig replaces the step's config wholesale with the given
// map. Full replace, not merge: the config panel always submits the
// complete form value, and merging would resurrect keys the user
// cleared. Patching an unknown id is a no-op.
func (e *Editor) PatchStepConfig(stepID string, config map[string]any) bool {
	step, idx := e.automation.StepByID(stepID)
	if idx < 0 {
		e.logger.Debug("Config patch requested for unknown step", "step_id", stepID)

		return false
	}

	if config == nil {
		config = map[string]any{}
	}

	step.Config = config

	return true
}

// SetTrigger replaces the trigger wholesale. The config is always reset,
// even when the new type equals the previous one; initialConfig is copied
// so later edits cannot alias the caller's map. An empty type clears the
// trigger.
func (e *Editor) SetTrigger(triggerType string, initialConfig map[string]any) {
	config := make(map[string]any, len(initialConfig))
	if triggerType != "" {
		for k, v := range initialConfig {
			config[k] = v
		}
	}

	e.automation.Trigger = models.Trigger{
		Type:   triggerType,
		Config: config,
	}
}

// PatchTriggerConfig sets one trigger config key. It fails when no
// trigger type is selected or when the key is not declared by the
// selected trigger's schema, leaving the config unchanged.
func (e *Editor) PatchTriggerConfig(key string, value any) error {
	if !e.automation.HasTrigger() {
		return ErrNoTriggerSelected
	}

	component := e.registry.TriggerTypeOrFallback(e.automation.Trigger.Type)
	if !component.ConfigKeyAllowed(key) {
		return fmt.Errorf("%w: %q", ErrInvalidConfigKey, key)
	}

	if e.automation.Trigger.Config == nil {
		e.automation.Trigger.Config = map[string]any{}
	}

	e.automation.Trigger.Config[key] = value

	return nil
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}
