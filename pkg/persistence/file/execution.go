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

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// ExecutionRepository handles execution history file operations. The
// records are produced by the external executor; this repository reads
// them back for the execution log.
type ExecutionRepository struct {
	root string
	mu   *sync.Mutex
}

func NewExecutionRepository(root string, mu *sync.Mutex) *ExecutionRepository {
	return &ExecutionRepository{root: root, mu: mu}
}

// ListByAutomation returns one page of executions for an automation,
// newest first.
func (r *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string, opts persistence.ExecutionListOptions) (*persistence.ExecutionListResult, error) {
	if opts.PerPage <= 0 || opts.PerPage > 100 {
		opts.PerPage = 20
	}

	if opts.Page <= 0 {
		opts.Page = 1
	}

	root := os.DirFS(r.root + "/executions")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	matching := make([]*models.Execution, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		executionID := file[:len(file)-5]

		execution, err := r.GetByID(ctx, executionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load execution %s: %w", executionID, err)
		}

		if execution.AutomationID == automationID {
			matching = append(matching, execution)
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].StartedAt.After(matching[j].StartedAt)
	})

	totalCount := int64(len(matching))
	startIdx := (opts.Page - 1) * opts.PerPage
	endIdx := startIdx + opts.PerPage

	if startIdx >= len(matching) {
		return &persistence.ExecutionListResult{
			Executions:  make([]*models.Execution, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(matching) {
		endIdx = len(matching)
	}

	// List items omit per-step detail; the detail endpoint loads it.
	page := make([]*models.Execution, 0, endIdx-startIdx)
	for _, execution := range matching[startIdx:endIdx] {
		page = append(page, &models.Execution{
			ID:           execution.ID,
			AutomationID: execution.AutomationID,
			Status:       execution.Status,
			StartedAt:    execution.StartedAt,
		})
	}

	return &persistence.ExecutionListResult{
		Executions:  page,
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(matching),
	}, nil
}

// GetByID retrieves an execution, including per-step outcomes.
func (r *ExecutionRepository) GetByID(_ context.Context, id string) (*models.Execution, error) {
	filePath := filepath.Clean(path.Join(r.root, "executions", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch execution %s: %w", id, err)
	}

	var execution models.Execution

	err = json.Unmarshal(body, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

// Save writes an execution record.
func (r *ExecutionRepository) Save(_ context.Context, execution *models.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.MkdirAll(r.root+"/executions", 0750)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	filePath := path.Join(r.root+"/executions", execution.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}
