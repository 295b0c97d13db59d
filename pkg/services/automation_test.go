package services

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlab/sponsorflow/pkg/events"
	"github.com/sponsorlab/sponsorflow/pkg/mocks"
	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence/file"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
)

func newAutomationService(t *testing.T) (*Automation, *mocks.MockEventBus) {
	t.Helper()

	eventBus := &mocks.MockEventBus{}
	persistence := file.NewPersistence(t.TempDir())
	reg := registry.NewRegistry(slog.Default())

	return NewAutomation(persistence, eventBus, reg, nil, slog.Default()), eventBus
}

func validAutomation() *models.Automation {
	automation := models.NewAutomation()
	automation.Name = "Benvenuto sponsor"
	automation.Trigger = models.Trigger{Type: "sponsor_signed", Config: map[string]any{}}
	automation.Steps = []*models.Step{
		{ID: "s1", Type: registry.StepTypeSendEmail, Config: map[string]any{"template_id": "welcome"}},
		{ID: "s2", Type: registry.StepTypeDelay, Config: map[string]any{"days": 2}},
	}

	return automation
}

func TestAutomation_Create(t *testing.T) {
	service, eventBus := newAutomationService(t)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := service.Create(t.Context(), validAutomation())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	eventBus.AssertCalled(t, "Publish", mock.Anything, created.ID, mock.MatchedBy(func(event any) bool {
		created, ok := event.(events.AutomationCreated)

		return ok && created.Name == "Benvenuto sponsor"
	}))
}

func TestAutomation_Create_ValidationFailure(t *testing.T) {
	service, eventBus := newAutomationService(t)

	automation := models.NewAutomation()
	automation.Name = ""
	automation.Steps = []*models.Step{
		{ID: "s1", Type: registry.StepTypeSendEmail, Config: map[string]any{}},
	}

	created, err := service.Create(t.Context(), automation)
	require.Error(t, err)
	assert.Nil(t, created)

	failed, ok := AsValidationFailed(err)
	require.True(t, ok)
	assert.Len(t, failed.Result.Errors, 3)

	// Nothing persisted, nothing announced.
	list, listErr := service.List(t.Context(), ListAutomationsRequest{})
	require.NoError(t, listErr)
	assert.Empty(t, list.Automations)
	eventBus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutomation_Update(t *testing.T) {
	service, eventBus := newAutomationService(t)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := service.Create(t.Context(), validAutomation())
	require.NoError(t, err)

	updated := validAutomation()
	updated.Name = "Benvenuto sponsor v2"
	updated.Enabled = true

	result, err := service.Update(t.Context(), created.ID, updated)
	require.NoError(t, err)

	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, created.CreatedAt, result.CreatedAt)
	assert.True(t, result.Enabled)

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Benvenuto sponsor v2", fetched.Name)
}

func TestAutomation_Update_NotFound(t *testing.T) {
	service, _ := newAutomationService(t)

	_, err := service.Update(t.Context(), "missing", validAutomation())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAutomation_Delete(t *testing.T) {
	service, eventBus := newAutomationService(t)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := service.Create(t.Context(), validAutomation())
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.True(t, IsNotFound(err))

	eventBus.AssertCalled(t, "Publish", mock.Anything, created.ID, mock.MatchedBy(func(event any) bool {
		_, ok := event.(events.AutomationDeleted)

		return ok
	}))
}

func TestAutomation_Delete_NotFound(t *testing.T) {
	service, eventBus := newAutomationService(t)

	err := service.Delete(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	eventBus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutomation_List_Sorting(t *testing.T) {
	service, eventBus := newAutomationService(t)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for _, name := range []string{"Zebra", "Alpha", "Medio"} {
		automation := validAutomation()
		automation.Name = name

		_, err := service.Create(t.Context(), automation)
		require.NoError(t, err)
	}

	byName, err := service.List(t.Context(), ListAutomationsRequest{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, byName.Automations, 3)
	assert.Equal(t, "Alpha", byName.Automations[0].Name)
	assert.Equal(t, "Zebra", byName.Automations[2].Name)

	paged, err := service.List(t.Context(), ListAutomationsRequest{Limit: 2, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Len(t, paged.Automations, 2)
	assert.Equal(t, int64(3), paged.TotalCount)
	assert.True(t, paged.HasNextPage)
}

func TestAutomation_List_InvalidSort(t *testing.T) {
	service, _ := newAutomationService(t)

	_, err := service.List(t.Context(), ListAutomationsRequest{SortBy: "owner"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestAutomation_TestRun(t *testing.T) {
	service, eventBus := newAutomationService(t)
	eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := service.Create(t.Context(), validAutomation())
	require.NoError(t, err)

	err = service.TestRun(t.Context(), created.ID, map[string]any{"sponsor_id": "sp-1"})
	require.NoError(t, err)

	eventBus.AssertCalled(t, "Publish", mock.Anything, created.ID, mock.MatchedBy(func(event any) bool {
		requested, ok := event.(events.AutomationTestRequested)

		return ok &&
			requested.TriggerType == "sponsor_signed" &&
			requested.TriggerData["sponsor_id"] == "sp-1"
	}))
}

func TestAutomation_TestRun_NotFound(t *testing.T) {
	service, _ := newAutomationService(t)

	err := service.TestRun(t.Context(), "missing", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAutomation_HealthCheck(t *testing.T) {
	service, _ := newAutomationService(t)

	message, healthy := service.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.NotEmpty(t, message)
}
