// Package registry holds the static metadata tables for step types and
// trigger types: display label, color, icon and the config schema each
// type accepts. Registries are seeded at process start and never mutated
// afterwards; every other component queries them instead of keeping its
// own parallel maps.
package registry

import (
	"log/slog"

	"github.com/sponsorlab/sponsorflow/pkg/models"
)

type Registry struct {
	logger       *slog.Logger
	stepTypes    map[string]*models.Component
	triggerTypes map[string]*models.Component
	stepOrder    []string
	triggerOrder []string
}

// NewRegistry returns a registry seeded with the built-in step and
// trigger types.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		logger:       logger,
		stepTypes:    make(map[string]*models.Component),
		triggerTypes: make(map[string]*models.Component),
	}

	registerBuiltinStepTypes(r)
	registerBuiltinTriggerTypes(r)

	return r
}

func (r *Registry) RegisterStepType(component *models.Component) {
	if _, exists := r.stepTypes[component.Value]; !exists {
		r.stepOrder = append(r.stepOrder, component.Value)
	}

	r.stepTypes[component.Value] = component
}

func (r *Registry) RegisterTriggerType(component *models.Component) {
	if _, exists := r.triggerTypes[component.Value]; !exists {
		r.triggerOrder = append(r.triggerOrder, component.Value)
	}

	r.triggerTypes[component.Value] = component
}

// StepType retrieves metadata for a step type.
func (r *Registry) StepType(value string) (*models.Component, bool) {
	component, ok := r.stepTypes[value]

	return component, ok
}

// TriggerType retrieves metadata for a trigger type.
func (r *Registry) TriggerType(value string) (*models.Component, bool) {
	component, ok := r.triggerTypes[value]

	return component, ok
}

// StepTypeOrFallback never fails: unknown values yield a degraded
// component whose label is the raw type id and whose schema is empty, so
// stored automations referencing retired types keep rendering.
func (r *Registry) StepTypeOrFallback(value string) *models.Component {
	if component, ok := r.stepTypes[value]; ok {
		return component
	}

	r.logger.Warn("Unknown step type, using fallback metadata", "type", value)

	return fallbackComponent(value)
}

// TriggerTypeOrFallback is the trigger counterpart of StepTypeOrFallback.
func (r *Registry) TriggerTypeOrFallback(value string) *models.Component {
	if component, ok := r.triggerTypes[value]; ok {
		return component
	}

	r.logger.Warn("Unknown trigger type, using fallback metadata", "type", value)

	return fallbackComponent(value)
}

// StepTypes returns all registered step types in registration order.
func (r *Registry) StepTypes() []*models.Component {
	components := make([]*models.Component, 0, len(r.stepOrder))
	for _, value := range r.stepOrder {
		components = append(components, r.stepTypes[value])
	}

	return components
}

// TriggerTypes returns all registered trigger types in registration order.
func (r *Registry) TriggerTypes() []*models.Component {
	components := make([]*models.Component, 0, len(r.triggerOrder))
	for _, value := range r.triggerOrder {
		components = append(components, r.triggerTypes[value])
	}

	return components
}

func (r *Registry) HealthCheck() (string, bool) {
	if len(r.stepTypes) == 0 || len(r.triggerTypes) == 0 {
		return "Registry is empty", false
	}

	return "Registry is healthy", true
}

func fallbackComponent(value string) *models.Component {
	return &models.Component{
		Value: value,
		Label: value,
	}
}
