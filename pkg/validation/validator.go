// Package validation gates every save of an automation: mandatory name
// and trigger checks plus per-step configuration checks against the
// registry schemas. Validation never talks to the backend; failures are
// surfaced inline by the caller and the save is simply not attempted.
package validation

import (
	"fmt"
	"strings"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
	"github.com/xeipuuv/gojsonschema"
)

// Code identifies a class of validation failure.
type Code string

const (
	CodeMissingName          Code = "missing_name"
	CodeMissingTrigger       Code = "missing_trigger"
	CodeIncompleteStep       Code = "incomplete_step"
	CodeInvalidTriggerConfig Code = "invalid_trigger_config"
)

// FieldError is one field-level validation failure. StepID is set only
// for incomplete_step errors so the UI can highlight the offending step.
type FieldError struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	StepID  string `json:"step_id,omitempty"`
	Message string `json:"message"`
}

// Result collects every validation failure found. A valid automation has
// an empty error list.
type Result struct {
	Errors []FieldError `json:"errors"`
}

func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Validate checks an automation against the registry before it may be
// persisted. The name and trigger checks always run; step checks collect
// one incomplete_step entry per offending step instead of stopping at
// the first, so the UI can highlight all of them at once.
func Validate(automation *models.Automation, reg *registry.Registry) Result {
	var result Result

	if strings.TrimSpace(automation.Name) == "" {
		result.Errors = append(result.Errors, FieldError{
			Code:    CodeMissingName,
			Field:   "name",
			Message: "automation name is required",
		})
	}

	if !automation.HasTrigger() {
		result.Errors = append(result.Errors, FieldError{
			Code:    CodeMissingTrigger,
			Field:   "trigger",
			Message: "a trigger must be selected",
		})
	} else {
		result.Errors = append(result.Errors, validateTrigger(automation.Trigger, reg)...)
	}

	for _, step := range automation.Steps {
		if fieldErr, ok := validateStep(step, reg); !ok {
			result.Errors = append(result.Errors, fieldErr)
		}
	}

	return result
}

func validateTrigger(trigger models.Trigger, reg *registry.Registry) []FieldError {
	component := reg.TriggerTypeOrFallback(trigger.Type)

	var errs []FieldError

	for key := range trigger.Config {
		if !component.ConfigKeyAllowed(key) {
			errs = append(errs, FieldError{
				Code:    CodeInvalidTriggerConfig,
				Field:   "trigger.config." + key,
				Message: fmt.Sprintf("config key %q is not declared by trigger %q", key, trigger.Type),
			})
		}
	}

	if component.ValidateConfig != nil {
		if err := component.ValidateConfig(trigger.Config); err != nil {
			errs = append(errs, FieldError{
				Code:    CodeInvalidTriggerConfig,
				Field:   "trigger.config",
				Message: err.Error(),
			})
		}
	}

	return errs
}

// validateStep reports whether the step's config satisfies its type's
// schema. Unknown step types degrade to the fallback component, which
// has no schema and therefore no requirements.
func validateStep(step *models.Step, reg *registry.Registry) (FieldError, bool) {
	component := reg.StepTypeOrFallback(step.Type)

	if detail := incompleteDetail(step, component); detail != "" {
		return FieldError{
			Code:    CodeIncompleteStep,
			StepID:  step.ID,
			Message: fmt.Sprintf("step %q is not fully configured: %s", component.Label, detail),
		}, false
	}

	return FieldError{}, true
}

func incompleteDetail(step *models.Step, component *models.Component) string {
	if component.Schema != nil {
		schemaLoader := gojsonschema.NewGoLoader(component.Schema)
		configLoader := gojsonschema.NewGoLoader(step.Config)

		result, err := gojsonschema.Validate(schemaLoader, configLoader)
		if err != nil {
			return err.Error()
		}

		if !result.Valid() {
			details := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				details = append(details, desc.String())
			}

			return strings.Join(details, "; ")
		}
	}

	if len(component.RequireOneOf) > 0 && !anyPositive(step.Config, component.RequireOneOf) {
		return fmt.Sprintf("at least one of %s must be greater than zero",
			strings.Join(component.RequireOneOf, ", "))
	}

	return ""
}

func anyPositive(config map[string]any, keys []string) bool {
	for _, key := range keys {
		switch n := config[key].(type) {
		case int:
			if n > 0 {
				return true
			}
		case int64:
			if n > 0 {
				return true
			}
		case float64:
			if n > 0 {
				return true
			}
		}
	}

	return false
}
