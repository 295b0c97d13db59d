// Package file provides JSON-file based persistence, used for local
// development and tests.
package file

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// Persistence stores automations and executions as one JSON document per
// record under a root directory. Writes are serialized per process.
type Persistence struct {
	root        string
	automations *AutomationRepository
	executions  *ExecutionRepository
}

func NewPersistence(root string) *Persistence {
	mu := &sync.Mutex{}

	return &Persistence{
		root:        root,
		automations: NewAutomationRepository(root, mu),
		executions:  NewExecutionRepository(root, mu),
	}
}

func (p *Persistence) Automations(ctx context.Context) ([]*models.Automation, error) {
	return p.automations.GetAll(ctx)
}

func (p *Persistence) AutomationByID(ctx context.Context, id string) (*models.Automation, error) {
	return p.automations.GetByID(ctx, id)
}

func (p *Persistence) SaveAutomation(ctx context.Context, automation *models.Automation) error {
	return p.automations.Save(ctx, automation)
}

func (p *Persistence) DeleteAutomation(ctx context.Context, id string) error {
	return p.automations.Delete(ctx, id)
}

func (p *Persistence) ExecutionsByAutomation(ctx context.Context, automationID string, opts persistence.ExecutionListOptions) (*persistence.ExecutionListResult, error) {
	return p.executions.ListByAutomation(ctx, automationID, opts)
}

func (p *Persistence) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	return p.executions.GetByID(ctx, id)
}

func (p *Persistence) SaveExecution(ctx context.Context, execution *models.Execution) error {
	return p.executions.Save(ctx, execution)
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(p.root, 0750)
	if err != nil {
		return fmt.Errorf("storage root is not writable: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
