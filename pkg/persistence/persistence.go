// Package persistence provides the data storage abstraction for
// automations and their execution history.
package persistence

import (
	"context"

	"github.com/sponsorlab/sponsorflow/pkg/models"
)

// ExecutionListOptions controls execution history pagination. Pages are
// 1-based, matching the gateway's per_page/page contract.
type ExecutionListOptions struct {
	Page    int
	PerPage int
}

// ExecutionListResult is one page of execution history, newest first.
type ExecutionListResult struct {
	Executions  []*models.Execution `json:"executions"`
	TotalCount  int64               `json:"total_count"`
	HasNextPage bool                `json:"has_next_page"`
}

type Persistence interface {
	Automations(ctx context.Context) ([]*models.Automation, error)
	AutomationByID(ctx context.Context, id string) (*models.Automation, error)
	SaveAutomation(ctx context.Context, automation *models.Automation) error
	DeleteAutomation(ctx context.Context, id string) error

	// Executions are written by the external executor and read here.
	ExecutionsByAutomation(ctx context.Context, automationID string, opts ExecutionListOptions) (*ExecutionListResult, error)
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)
	SaveExecution(ctx context.Context, execution *models.Execution) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
