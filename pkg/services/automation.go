package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sponsorlab/sponsorflow/pkg/eventbus"
	"github.com/sponsorlab/sponsorflow/pkg/events"
	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/otelhelper"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
	"github.com/sponsorlab/sponsorflow/pkg/validation"
)

// Automation implements automation CRUD, validation gating and lifecycle
// event publishing.
type Automation struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	registry    *registry.Registry
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewAutomation creates a new automation service. A nil tracer disables
// tracing.
func NewAutomation(
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	reg *registry.Registry,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Automation {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sponsorflow")
	}

	return &Automation{
		persistence: persistence,
		eventBus:    eventBus,
		registry:    reg,
		tracer:      tracer,
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Automation) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListAutomationsRequest contains options for listing automations.
type ListAutomationsRequest struct {
	Limit  int
	Offset int

	SortBy    string
	SortOrder string
}

// ListAutomationsResponse contains the result of listing automations.
type ListAutomationsResponse struct {
	Automations []*models.Automation `json:"automations"`
	TotalCount  int64                `json:"total_count"`
	HasNextPage bool                 `json:"has_next_page"`
}

// List retrieves automations with sorting and pagination.
func (s *Automation) List(ctx context.Context, req ListAutomationsRequest) (*ListAutomationsResponse, error) {
	err := s.validateListRequest(&req)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	automations, err := s.persistence.Automations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}

	sortAutomations(automations, req.SortBy, req.SortOrder)

	totalCount := int64(len(automations))

	start := req.Offset
	if start > len(automations) {
		start = len(automations)
	}

	end := start + req.Limit
	if end > len(automations) {
		end = len(automations)
	}

	return &ListAutomationsResponse{
		Automations: automations[start:end],
		TotalCount:  totalCount,
		HasNextPage: end < len(automations),
	}, nil
}

func (s *Automation) validateListRequest(req *ListAutomationsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}
	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	return nil
}

func sortAutomations(automations []*models.Automation, sortBy, sortOrder string) {
	less := func(a, b *models.Automation) bool {
		switch sortBy {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(automations, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(automations[i], automations[j])
		}

		return less(automations[j], automations[i])
	})
}

// FetchByID retrieves an automation by its ID.
func (s *Automation) FetchByID(ctx context.Context, id string) (*models.Automation, error) {
	automation, err := s.persistence.AutomationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return automation, nil
}

// Create validates and persists a new automation, then announces it.
// Validation failures abort the save and are returned in full.
func (s *Automation) Create(ctx context.Context, automation *models.Automation) (*models.Automation, error) {
	if automation == nil {
		return nil, ErrAutomationNil
	}

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "automation.create",
		attribute.String(otelhelper.AutomationNameKey, automation.Name),
	)
	defer span.End()

	result := validation.Validate(automation, s.registry)
	if !result.Ok() {
		err := &ValidationFailedError{Result: result}
		otelhelper.SetError(span, err)

		return nil, err
	}

	now := time.Now().UTC()
	automation.ID = uuid.New().String()
	automation.CreatedAt = now
	automation.UpdatedAt = now

	err := s.persistence.SaveAutomation(ctx, automation)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create automation: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.AutomationIDKey, automation.ID))

	s.publish(ctx, automation.ID, events.AutomationCreated{
		BaseEvent: events.NewBaseEvent(events.AutomationCreatedEvent, automation.ID),
		Name:      automation.Name,
		Kind:      string(automation.Kind),
		Enabled:   automation.Enabled,
	})

	return automation, nil
}

// Update validates and replaces an existing automation, then announces
// the change.
func (s *Automation) Update(ctx context.Context, automationID string, automation *models.Automation) (*models.Automation, error) {
	if automation == nil {
		return nil, ErrAutomationNil
	}

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "automation.update",
		attribute.String(otelhelper.AutomationIDKey, automationID),
	)
	defer span.End()

	existing, err := s.persistence.AutomationByID(ctx, automationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	result := validation.Validate(automation, s.registry)
	if !result.Ok() {
		err := &ValidationFailedError{Result: result}
		otelhelper.SetError(span, err)

		return nil, err
	}

	automation.ID = automationID
	automation.CreatedAt = existing.CreatedAt
	automation.UpdatedAt = time.Now().UTC()

	err = s.persistence.SaveAutomation(ctx, automation)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to update automation: %w", err)
	}

	s.publish(ctx, automation.ID, events.AutomationUpdated{
		BaseEvent: events.NewBaseEvent(events.AutomationUpdatedEvent, automation.ID),
		Name:      automation.Name,
		Kind:      string(automation.Kind),
		Enabled:   automation.Enabled,
	})

	return automation, nil
}

// Delete removes an automation by its ID.
func (s *Automation) Delete(ctx context.Context, automationID string) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "automation.delete",
		attribute.String(otelhelper.AutomationIDKey, automationID),
	)
	defer span.End()

	_, err := s.persistence.AutomationByID(ctx, automationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	err = s.persistence.DeleteAutomation(ctx, automationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return fmt.Errorf("failed to delete automation: %w", err)
	}

	s.publish(ctx, automationID, events.AutomationDeleted{
		BaseEvent: events.NewBaseEvent(events.AutomationDeletedEvent, automationID),
	})

	return nil
}

// TestRun asks the executor to run an automation once against synthetic
// trigger data, bypassing its trigger. The automation must exist but
// need not be enabled.
func (s *Automation) TestRun(ctx context.Context, automationID string, triggerData map[string]any) error {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "automation.test_run",
		attribute.String(otelhelper.AutomationIDKey, automationID),
	)
	defer span.End()

	automation, err := s.persistence.AutomationByID(ctx, automationID)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	s.publish(ctx, automationID, events.AutomationTestRequested{
		BaseEvent:   events.NewBaseEvent(events.AutomationTestRequestedEvent, automationID),
		TriggerType: automation.Trigger.Type,
		TriggerData: triggerData,
	})

	return nil
}

// publish sends a lifecycle event. Event delivery is best effort: a
// publish failure is logged but never fails the originating request.
func (s *Automation) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, key, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "automation_id", key, "error", err)
	}
}
