package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// AutomationRepository handles automation-related file operations.
type AutomationRepository struct {
	root string
	mu   *sync.Mutex
}

func NewAutomationRepository(root string, mu *sync.Mutex) *AutomationRepository {
	return &AutomationRepository{root: root, mu: mu}
}

// GetAll returns every stored automation, newest first.
func (r *AutomationRepository) GetAll(ctx context.Context) ([]*models.Automation, error) {
	root := os.DirFS(r.root + "/automations")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list automation files: %w", err)
	}

	automations := make([]*models.Automation, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		automationID := file[:len(file)-5] // Remove .json extension

		automation, err := r.GetByID(ctx, automationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load automation %s: %w", automationID, err)
		}

		automations = append(automations, automation)
	}

	sort.Slice(automations, func(i, j int) bool {
		return automations[i].CreatedAt.After(automations[j].CreatedAt)
	})

	return automations, nil
}

// GetByID retrieves an automation by its ID from the file system.
func (r *AutomationRepository) GetByID(_ context.Context, id string) (*models.Automation, error) {
	filePath := filepath.Clean(path.Join(r.root, "automations", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewAutomationError("GetByID", id, persistence.ErrAutomationNotFound)
		}

		return nil, fmt.Errorf("failed to fetch automation %s: %w", id, err)
	}

	var automation models.Automation

	err = json.Unmarshal(body, &automation)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal automation %s: %w", id, err)
	}

	return &automation, nil
}

// Save writes an automation to the file system.
func (r *AutomationRepository) Save(_ context.Context, automation *models.Automation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.MkdirAll(r.root+"/automations", 0750)
	if err != nil {
		return fmt.Errorf("failed to create automations directory: %w", err)
	}

	now := time.Now().UTC()
	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = now
	}

	automation.UpdatedAt = now

	data, err := json.MarshalIndent(automation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal automation %s: %w", automation.ID, err)
	}

	filePath := path.Join(r.root+"/automations", automation.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// Delete removes an automation by its ID. Deleting an absent automation
// is not an error.
func (r *AutomationRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filePath := path.Join(r.root+"/automations", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete automation %s: %w", id, err)
	}

	return nil
}
