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

func newTestEditor() *editor.Editor {
	return editor.New(models.NewAutomation(), registry.NewRegistry(slog.Default()), slog.Default())
}

func stepIDs(automation *models.Automation) []string {
	ids := make([]string, 0, len(automation.Steps))
	for _, step := range automation.Steps {
		ids = append(ids, step.ID)
	}

	return ids
}

func TestEditor_InsertStep_AppendsAtEnd(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()

	first := ed.InsertStep(registry.StepTypeSendEmail, 0)
	second := ed.InsertStep(registry.StepTypeDelay, len(ed.Automation().Steps))

	steps := ed.Automation().Steps
	require.Len(t, steps, 2)
	assert.Equal(t, first.ID, steps[0].ID)
	assert.Equal(t, second.ID, steps[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, second.Config)
}

func TestEditor_InsertStep_ClampsIndex(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	ed.InsertStep(registry.StepTypeSendEmail, 0)

	// Far beyond the end appends; negative prepends.
	tail := ed.InsertStep(registry.StepTypeDelay, 99)
	head := ed.InsertStep(registry.StepTypeCreateTask, -5)

	steps := ed.Automation().Steps
	require.Len(t, steps, 3)
	assert.Equal(t, head.ID, steps[0].ID)
	assert.Equal(t, tail.ID, steps[2].ID)
}

func TestEditor_InsertStep_AtMiddle(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)
	c := ed.InsertStep(registry.StepTypeCreateTask, 1)
	b := ed.InsertStep(registry.StepTypeDelay, 1)

	assert.Equal(t, []string{a.ID, b.ID, c.ID}, stepIDs(ed.Automation()))
}

func TestEditor_RemoveStep(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)
	b := ed.InsertStep(registry.StepTypeDelay, 1)
	c := ed.InsertStep(registry.StepTypeCreateTask, 2)

	assert.True(t, ed.RemoveStep(b.ID))
	assert.Equal(t, []string{a.ID, c.ID}, stepIDs(ed.Automation()))

	// Removing an id that is not present leaves the list unchanged and
	// does not error.
	assert.False(t, ed.RemoveStep("missing-id"))
	assert.Equal(t, []string{a.ID, c.ID}, stepIDs(ed.Automation()))
}

func TestEditor_MoveStep_FrontToBack(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()

	ids := make([]string, 0, 5)
	for range 5 {
		ids = append(ids, ed.InsertStep(registry.StepTypeSendEmail, len(ids)).ID)
	}

	// Move-to-end shifts everything else up by one; it is not a swap
	// with the last element.
	ed.MoveStep(0, 4)

	expected := []string{ids[1], ids[2], ids[3], ids[4], ids[0]}
	assert.Equal(t, expected, stepIDs(ed.Automation()))
}

func TestEditor_MoveStep_BackToFront(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)
	b := ed.InsertStep(registry.StepTypeDelay, 1)
	c := ed.InsertStep(registry.StepTypeCreateTask, 2)

	ed.MoveStep(2, 0)

	assert.Equal(t, []string{c.ID, a.ID, b.ID}, stepIDs(ed.Automation()))
}

func TestEditor_MoveStep_TwoElementSwap(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)
	b := ed.InsertStep(registry.StepTypeDelay, 1)

	ed.MoveStep(0, 1)
	assert.Equal(t, []string{b.ID, a.ID}, stepIDs(ed.Automation()))

	ed.MoveStep(1, 0)
	assert.Equal(t, []string{a.ID, b.ID}, stepIDs(ed.Automation()))
}

func TestEditor_MoveStep_SameIndexIsNoOp(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	for range 3 {
		ed.InsertStep(registry.StepTypeSendEmail, len(ed.Automation().Steps))
	}

	before := stepIDs(ed.Automation())

	for i := range 3 {
		ed.MoveStep(i, i)
		assert.Equal(t, before, stepIDs(ed.Automation()))
	}
}

func TestEditor_MoveStep_ClampsStaleIndices(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)
	b := ed.InsertStep(registry.StepTypeDelay, 1)
	c := ed.InsertStep(registry.StepTypeCreateTask, 2)

	// Out-of-bounds indices from stale drag events clamp, never panic.
	ed.MoveStep(-3, 99)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, stepIDs(ed.Automation()))

	ed.MoveStep(99, 99)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, stepIDs(ed.Automation()))
}

func TestEditor_MoveStep_SingleElement(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	a := ed.InsertStep(registry.StepTypeSendEmail, 0)

	ed.MoveStep(0, 5)
	assert.Equal(t, []string{a.ID}, stepIDs(ed.Automation()))
}

func TestEditor_OrderIntegrityUnderMixedOperations(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()

	inserted := map[string]bool{}
	for i := range 6 {
		step := ed.InsertStep(registry.StepTypeSendEmail, i)
		inserted[step.ID] = true
	}

	removed := ed.Automation().Steps[2].ID
	ed.RemoveStep(removed)
	delete(inserted, removed)

	ed.MoveStep(0, 3)
	ed.MoveStep(4, 1)
	extra := ed.InsertStep(registry.StepTypeDelay, 2)
	inserted[extra.ID] = true

	// Exactly the inserted-minus-removed steps remain, each id unique,
	// and serialization yields order == index with no gaps.
	payload := ed.Automation().ToPayload()
	require.Len(t, payload.Steps, len(inserted))

	seen := map[string]bool{}

	for i, sp := range payload.Steps {
		assert.Equal(t, i, sp.Order)
		assert.False(t, seen[sp.ID], "duplicate step id %s", sp.ID)
		assert.True(t, inserted[sp.ID], "unexpected step id %s", sp.ID)
		seen[sp.ID] = true
	}
}

func TestEditor_SetTrigger_ResetsConfig(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()

	ed.SetTrigger(registry.TriggerTypeLeadCreated, map[string]any{"source": "website"})
	assert.Equal(t, "website", ed.Automation().Trigger.Config["source"])

	// Re-selecting the same type still resets the config.
	ed.SetTrigger(registry.TriggerTypeLeadCreated, nil)
	assert.Empty(t, ed.Automation().Trigger.Config)

	ed.SetTrigger(registry.TriggerTypeFormSubmitted, map[string]any{"form_id": "f-1"})
	ed.SetTrigger(registry.TriggerTypeSponsorSigned, nil)
	assert.Equal(t, registry.TriggerTypeSponsorSigned, ed.Automation().Trigger.Type)
	assert.Empty(t, ed.Automation().Trigger.Config)
}

func TestEditor_SetTrigger_ClearEmptiesConfig(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	ed.SetTrigger(registry.TriggerTypeFormSubmitted, map[string]any{"form_id": "f-1"})

	ed.SetTrigger("", nil)

	assert.False(t, ed.Automation().HasTrigger())
	assert.Empty(t, ed.Automation().Trigger.Config)
}

func TestEditor_PatchTriggerConfig(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()

	err := ed.PatchTriggerConfig("source", "website")
	assert.ErrorIs(t, err, editor.ErrNoTriggerSelected)

	ed.SetTrigger(registry.TriggerTypeLeadCreated, nil)

	require.NoError(t, ed.PatchTriggerConfig("source", "referral"))
	assert.Equal(t, "referral", ed.Automation().Trigger.Config["source"])

	// Keys the schema does not declare are rejected and the config is
	// left untouched.
	err = ed.PatchTriggerConfig("unknown_key", "x")
	assert.ErrorIs(t, err, editor.ErrInvalidConfigKey)
	assert.NotContains(t, ed.Automation().Trigger.Config, "unknown_key")
	assert.Equal(t, "referral", ed.Automation().Trigger.Config["source"])
}

func TestEditor_PatchStepConfig_WholesaleReplace(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	step := ed.InsertStep(registry.StepTypeWebhookCall, 0)

	require.True(t, ed.PatchStepConfig(step.ID, map[string]any{"url": "https://example.com", "method": "PUT"}))
	require.True(t, ed.PatchStepConfig(step.ID, map[string]any{"url": "https://example.org"}))

	// Replace, not merge: the previous method key is gone.
	assert.Equal(t, map[string]any{"url": "https://example.org"}, step.Config)

	assert.False(t, ed.PatchStepConfig("missing-id", map[string]any{"url": "x"}))

	require.True(t, ed.PatchStepConfig(step.ID, nil))
	assert.NotNil(t, step.Config)
	assert.Empty(t, step.Config)
}
