package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// ExecutionRepository handles execution history database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

// ListByAutomation returns one page of executions, newest first. List
// rows omit per-step detail.
func (r *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string, opts persistence.ExecutionListOptions) (*persistence.ExecutionListResult, error) {
	if opts.PerPage <= 0 || opts.PerPage > 100 {
		opts.PerPage = 20
	}

	if opts.Page <= 0 {
		opts.Page = 1
	}

	var totalCount int64

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM executions WHERE automation_id = $1", automationID,
	).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count executions: %w", err)
	}

	offset := (opts.Page - 1) * opts.PerPage

	query := `
		SELECT id, automation_id, status, started_at
		FROM executions
		WHERE automation_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, automationID, opts.PerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		var execution models.Execution

		err = rows.Scan(&execution.ID, &execution.AutomationID, &execution.Status, &execution.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, &execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return &persistence.ExecutionListResult{
		Executions:  executions,
		TotalCount:  totalCount,
		HasNextPage: int64(offset+len(executions)) < totalCount,
	}, nil
}

// GetByID returns one execution including per-step outcomes.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT id, automation_id, status, started_at, steps
		FROM executions
		WHERE id = $1
	`

	var (
		execution models.Execution
		steps     []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&execution.ID,
		&execution.AutomationID,
		&execution.Status,
		&execution.StartedAt,
		&steps,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to query execution %s: %w", id, err)
	}

	if len(steps) > 0 {
		err = json.Unmarshal(steps, &execution.Steps)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal steps for execution %s: %w", id, err)
		}
	}

	return &execution, nil
}

// Save upserts an execution record; the executor updates status as the
// run progresses.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
	steps, err := json.Marshal(execution.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps for execution %s: %w", execution.ID, err)
	}

	upsert := `
		INSERT INTO executions (id, automation_id, status, started_at, steps)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			steps = EXCLUDED.steps
	`

	_, err = r.db.ExecContext(ctx, upsert,
		execution.ID,
		execution.AutomationID,
		string(execution.Status),
		execution.StartedAt,
		steps,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}
