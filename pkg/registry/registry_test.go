package registry_test

import (
	"log/slog"
	"testing"

	"github.com/sponsorlab/sponsorflow/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *registry.Registry {
	return registry.NewRegistry(slog.Default())
}

func TestRegistry_StepTypeLookup(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	component, ok := reg.StepType(registry.StepTypeDelay)
	require.True(t, ok)
	assert.Equal(t, "Attendi", component.Label)
	require.NotNil(t, component.Schema)
	assert.Contains(t, component.Schema.Properties, "days")
	assert.Equal(t, []string{"days", "hours", "minutes"}, component.RequireOneOf)

	_, ok = reg.StepType("teleport")
	assert.False(t, ok)
}

func TestRegistry_TriggerTypeLookup(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	component, ok := reg.TriggerType(registry.TriggerTypeContractExpiring)
	require.True(t, ok)
	assert.Contains(t, component.Schema.Required, "days_before")
	assert.True(t, component.ConfigKeyAllowed("days_before"))
	assert.False(t, component.ConfigKeyAllowed("unknown_key"))
}

func TestRegistry_FallbackForUnknownTypes(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	component := reg.StepTypeOrFallback("legacy_fax_blast")
	require.NotNil(t, component)
	assert.Equal(t, "legacy_fax_blast", component.Value)
	assert.Equal(t, "legacy_fax_blast", component.Label)
	assert.Nil(t, component.Schema)

	trigger := reg.TriggerTypeOrFallback("moon_phase")
	assert.Equal(t, "moon_phase", trigger.Label)
}

func TestRegistry_ListingsAreStable(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	first := reg.StepTypes()
	second := reg.StepTypes()

	require.NotEmpty(t, first)
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Value, second[i].Value)
	}

	triggers := reg.TriggerTypes()
	assert.NotEmpty(t, triggers)
}

func TestRegistry_ScheduleCronValidation(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	component, ok := reg.TriggerType(registry.TriggerTypeSchedule)
	require.True(t, ok)
	require.NotNil(t, component.ValidateConfig)

	assert.NoError(t, component.ValidateConfig(map[string]any{"cron": "0 9 * * 1"}))
	assert.Error(t, component.ValidateConfig(map[string]any{"cron": "not a cron"}))
	assert.Error(t, component.ValidateConfig(map[string]any{}))
}

func TestRegistry_HealthCheck(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry()

	message, ok := reg.HealthCheck()
	assert.True(t, ok)
	assert.Equal(t, "Registry is healthy", message)
}
