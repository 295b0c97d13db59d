// Package events defines the lifecycle notifications published when
// automations change or a test run is requested. The external executor
// consumes them.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every automation lifecycle event.
const Topic = "sponsorflow.automations"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AutomationCreatedEvent       EventType = "automation.created"
	AutomationUpdatedEvent       EventType = "automation.updated"
	AutomationDeletedEvent       EventType = "automation.deleted"
	AutomationTestRequestedEvent EventType = "automation.test.requested"
)

type BaseEvent struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	AutomationID string         `json:"automation_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type AutomationCreated struct {
	BaseEvent

	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

func (e AutomationCreated) GetType() EventType {
	return AutomationCreatedEvent
}

type AutomationUpdated struct {
	BaseEvent

	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

func (e AutomationUpdated) GetType() EventType {
	return AutomationUpdatedEvent
}

type AutomationDeleted struct {
	BaseEvent
}

func (e AutomationDeleted) GetType() EventType {
	return AutomationDeletedEvent
}

// AutomationTestRequested asks the executor to run an automation once
// against a synthetic record without waiting for its trigger.
type AutomationTestRequested struct {
	BaseEvent

	TriggerType string         `json:"trigger_type"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

func (e AutomationTestRequested) GetType() EventType {
	return AutomationTestRequestedEvent
}

func NewBaseEvent(eventType EventType, automationID string) BaseEvent {
	return BaseEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		AutomationID: automationID,
		Metadata:     make(map[string]any),
	}
}
