package editor_test

import (
	"log/slog"
	"testing"

	"github.com/sponsorlab/sponsorflow/pkg/editor"
	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_DelayAfterConfiguration(t *testing.T) {
	t.Parallel()

	ed := editor.New(models.NewAutomation(), registry.NewRegistry(slog.Default()), slog.Default())

	step := ed.InsertStep(registry.StepTypeDelay, 0)
	require.True(t, ed.PatchStepConfig(step.ID, map[string]any{"days": 2}))

	assert.Equal(t, "Attendi 2g", editor.Summary(step))
}

func TestSummary_Delay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   map[string]any
		expected string
	}{
		{"unconfigured", map[string]any{}, editor.NotConfigured},
		{"zero values", map[string]any{"days": 0, "hours": 0, "minutes": 0}, editor.NotConfigured},
		{"days only", map[string]any{"days": 2}, "Attendi 2g"},
		{"full interval", map[string]any{"days": 1, "hours": 3, "minutes": 15}, "Attendi 1g 3h 15m"},
		{"json numbers", map[string]any{"hours": float64(4)}, "Attendi 4h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			step := &models.Step{ID: "s", Type: registry.StepTypeDelay, Config: tt.config}
			assert.Equal(t, tt.expected, editor.Summary(step))
		})
	}
}

func TestSummary_Webhook(t *testing.T) {
	t.Parallel()

	step := &models.Step{ID: "s", Type: registry.StepTypeWebhookCall, Config: map[string]any{
		"url": "https://hooks.example.com/crm",
	}}

	// Method defaults to POST when not set.
	assert.Equal(t, "POST https://hooks.example.com/crm", editor.Summary(step))

	step.Config["method"] = "GET"
	assert.Equal(t, "GET https://hooks.example.com/crm", editor.Summary(step))

	step.Config = map[string]any{}
	assert.Equal(t, editor.NotConfigured, editor.Summary(step))
}

func TestSummary_TypeSpecific(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stepType string
		config   map[string]any
		expected string
	}{
		{registry.StepTypeSendEmail, map[string]any{"subject": "Benvenuto"}, `Invia email "Benvenuto"`},
		{registry.StepTypeSendEmail, map[string]any{"template_id": "tpl-7"}, "Invia email tpl-7"},
		{registry.StepTypeSendEmail, map[string]any{}, editor.NotConfigured},
		{registry.StepTypeCreateTask, map[string]any{"title": "Chiama sponsor"}, `Crea attività "Chiama sponsor"`},
		{registry.StepTypeUpdateRecordField, map[string]any{"field": "stato", "value": "attivo"}, `Imposta stato = "attivo"`},
		{registry.StepTypeEnrollInSequence, map[string]any{"sequence_id": "seq-1"}, "Iscrivi alla sequenza seq-1"},
		{registry.StepTypeConditionalBranch, map[string]any{"field": "budget", "operator": "gt", "value": "5000"}, `Se budget gt "5000"`},
		{registry.StepTypeSendMessage, map[string]any{"body": "Ciao"}, "Invia messaggio"},
		{registry.StepTypeAddTag, map[string]any{"tag": "vip"}, `Aggiungi tag "vip"`},
	}

	for _, tt := range tests {
		step := &models.Step{ID: "s", Type: tt.stepType, Config: tt.config}
		assert.Equal(t, tt.expected, editor.Summary(step))
	}
}

func TestSummary_UnknownTypeIsEmpty(t *testing.T) {
	t.Parallel()

	step := &models.Step{ID: "s", Type: "legacy_fax_blast", Config: map[string]any{"number": "123"}}
	assert.Empty(t, editor.Summary(step))
}
