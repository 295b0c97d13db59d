package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
	"github.com/sponsorlab/sponsorflow/pkg/persistence/file"
)

func TestAutomationRoundTrip(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	automation := models.NewAutomation()
	automation.ID = "a1"
	automation.Name = "Benvenuto sponsor"
	automation.Trigger = models.Trigger{Type: "sponsor_signed", Config: map[string]any{}}
	automation.Steps = []*models.Step{
		models.NewStep("send_email"),
		models.NewStep("delay"),
	}
	automation.Steps[1].Config["days"] = float64(2)

	require.NoError(t, store.SaveAutomation(ctx, automation))

	loaded, err := store.AutomationByID(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, automation.Name, loaded.Name)
	assert.Equal(t, automation.Trigger.Type, loaded.Trigger.Type)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, automation.Steps[0].ID, loaded.Steps[0].ID)
	assert.Equal(t, automation.Steps[1].Config["days"], loaded.Steps[1].Config["days"])
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestAutomationByIDNotFound(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())

	_, err := store.AutomationByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsAutomationNotFound(err))
}

func TestAutomationsSortedNewestFirst(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	older := models.NewAutomation()
	older.ID = "older"
	older.Name = "Prima"
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)

	newer := models.NewAutomation()
	newer.ID = "newer"
	newer.Name = "Dopo"
	newer.CreatedAt = time.Now().UTC()

	require.NoError(t, store.SaveAutomation(ctx, older))
	require.NoError(t, store.SaveAutomation(ctx, newer))

	automations, err := store.Automations(ctx)
	require.NoError(t, err)
	require.Len(t, automations, 2)
	assert.Equal(t, "newer", automations[0].ID)
	assert.Equal(t, "older", automations[1].ID)
}

func TestAutomationsEmptyStore(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())

	automations, err := store.Automations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, automations)
}

func TestDeleteAutomation(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	automation := models.NewAutomation()
	automation.ID = "a1"
	automation.Name = "Da cancellare"
	require.NoError(t, store.SaveAutomation(ctx, automation))

	require.NoError(t, store.DeleteAutomation(ctx, "a1"))

	_, err := store.AutomationByID(ctx, "a1")
	assert.True(t, persistence.IsAutomationNotFound(err))

	// Deleting again is a no-op.
	require.NoError(t, store.DeleteAutomation(ctx, "a1"))
}

func TestExecutionPagination(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	base := time.Now().UTC()
	for i := range 5 {
		execution := &models.Execution{
			ID:           string(rune('a'+i)) + "-run",
			AutomationID: "a1",
			Status:       models.ExecutionStatusCompleted,
			StartedAt:    base.Add(time.Duration(i) * time.Minute),
			Steps: []*models.ExecutionStep{
				{StepType: "send_email", Status: models.ExecutionStepStatusSuccess},
			},
		}
		require.NoError(t, store.SaveExecution(ctx, execution))
	}

	// Executions for another automation must not leak in.
	other := &models.Execution{
		ID:           "other-run",
		AutomationID: "a2",
		Status:       models.ExecutionStatusFailed,
		StartedAt:    base,
	}
	require.NoError(t, store.SaveExecution(ctx, other))

	page1, err := store.ExecutionsByAutomation(ctx, "a1", persistence.ExecutionListOptions{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.TotalCount)
	assert.True(t, page1.HasNextPage)
	require.Len(t, page1.Executions, 2)
	assert.Equal(t, "e-run", page1.Executions[0].ID)
	assert.Equal(t, "d-run", page1.Executions[1].ID)
	assert.Empty(t, page1.Executions[0].Steps, "list rows omit step detail")

	page3, err := store.ExecutionsByAutomation(ctx, "a1", persistence.ExecutionListOptions{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.False(t, page3.HasNextPage)
	require.Len(t, page3.Executions, 1)
	assert.Equal(t, "a-run", page3.Executions[0].ID)

	empty, err := store.ExecutionsByAutomation(ctx, "a1", persistence.ExecutionListOptions{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, empty.Executions)
	assert.False(t, empty.HasNextPage)
}

func TestExecutionByID(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	execution := &models.Execution{
		ID:           "run-1",
		AutomationID: "a1",
		Status:       models.ExecutionStatusFailed,
		StartedAt:    time.Now().UTC(),
		Steps: []*models.ExecutionStep{
			{StepType: "send_email", Status: models.ExecutionStepStatusSuccess},
			{StepType: "webhook_call", Status: models.ExecutionStepStatusFailed, ErrorMessage: "timeout"},
		},
	}
	require.NoError(t, store.SaveExecution(ctx, execution))

	loaded, err := store.ExecutionByID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "timeout", loaded.Steps[1].ErrorMessage)

	_, err = store.ExecutionByID(ctx, "missing")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	store := file.NewPersistence(t.TempDir())
	require.NoError(t, store.HealthCheck(context.Background()))
	require.NoError(t, store.Close(context.Background()))
}
