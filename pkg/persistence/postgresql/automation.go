package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// AutomationRepository handles automation-related database operations.
type AutomationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAutomationRepository(db *sql.DB, logger *slog.Logger) *AutomationRepository {
	return &AutomationRepository{db: db, logger: logger}
}

// GetAll returns all automations, newest first.
func (r *AutomationRepository) GetAll(ctx context.Context) ([]*models.Automation, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , kind
		  , enabled
		  , trigger_type
		  , trigger_config
		  , sequence_exit_on_reply
		  , sequence_exit_on_convert
		  , created_at
		  , updated_at
		FROM automations
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query automations: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	automations := make([]*models.Automation, 0)

	for rows.Next() {
		automation, err := r.scanAutomation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}

		err = r.loadSteps(ctx, automation)
		if err != nil {
			return nil, fmt.Errorf("failed to load automation steps: %w", err)
		}

		automations = append(automations, automation)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating automations: %w", err)
	}

	return automations, nil
}

// GetByID returns one automation with its steps in stored order.
func (r *AutomationRepository) GetByID(ctx context.Context, id string) (*models.Automation, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , kind
		  , enabled
		  , trigger_type
		  , trigger_config
		  , sequence_exit_on_reply
		  , sequence_exit_on_convert
		  , created_at
		  , updated_at
		FROM automations
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	automation, err := r.scanAutomation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewAutomationError("GetByID", id, persistence.ErrAutomationNotFound)
		}

		return nil, fmt.Errorf("failed to scan automation %s: %w", id, err)
	}

	err = r.loadSteps(ctx, automation)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps for automation %s: %w", id, err)
	}

	return automation, nil
}

// Save upserts the automation and rewrites its steps with position equal
// to the slice index, all in one transaction.
func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	now := time.Now().UTC()
	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = now
	}

	automation.UpdatedAt = now

	triggerConfig, err := json.Marshal(automation.Trigger.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger config: %w", err)
	}

	transaction, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	upsert := `
		INSERT INTO automations (
			id, name, description, kind, enabled, trigger_type, trigger_config,
			sequence_exit_on_reply, sequence_exit_on_convert, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			kind = EXCLUDED.kind,
			enabled = EXCLUDED.enabled,
			trigger_type = EXCLUDED.trigger_type,
			trigger_config = EXCLUDED.trigger_config,
			sequence_exit_on_reply = EXCLUDED.sequence_exit_on_reply,
			sequence_exit_on_convert = EXCLUDED.sequence_exit_on_convert,
			updated_at = EXCLUDED.updated_at
	`

	_, err = transaction.ExecContext(ctx, upsert,
		automation.ID,
		automation.Name,
		automation.Description,
		string(automation.Kind),
		automation.Enabled,
		automation.Trigger.Type,
		triggerConfig,
		automation.SequenceExitOnReply,
		automation.SequenceExitOnConvert,
		automation.CreatedAt,
		automation.UpdatedAt,
	)
	if err != nil {
		_ = transaction.Rollback()

		return fmt.Errorf("failed to upsert automation %s: %w", automation.ID, err)
	}

	_, err = transaction.ExecContext(ctx, "DELETE FROM automation_steps WHERE automation_id = $1", automation.ID)
	if err != nil {
		_ = transaction.Rollback()

		return fmt.Errorf("failed to clear steps for automation %s: %w", automation.ID, err)
	}

	for i, step := range automation.Steps {
		config, err := json.Marshal(step.Config)
		if err != nil {
			_ = transaction.Rollback()

			return fmt.Errorf("failed to marshal config for step %s: %w", step.ID, err)
		}

		_, err = transaction.ExecContext(ctx,
			`INSERT INTO automation_steps (automation_id, id, type, config, position) VALUES ($1, $2, $3, $4, $5)`,
			automation.ID, step.ID, step.Type, config, i,
		)
		if err != nil {
			_ = transaction.Rollback()

			return fmt.Errorf("failed to insert step %s: %w", step.ID, err)
		}
	}

	err = transaction.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit automation %s: %w", automation.ID, err)
	}

	return nil
}

// Delete removes an automation; its steps cascade.
func (r *AutomationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM automations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete automation %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for automation %s: %w", id, err)
	}

	if affected == 0 {
		return persistence.NewAutomationError("Delete", id, persistence.ErrAutomationNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AutomationRepository) scanAutomation(row rowScanner) (*models.Automation, error) {
	var (
		automation    models.Automation
		kind          string
		triggerConfig []byte
	)

	err := row.Scan(
		&automation.ID,
		&automation.Name,
		&automation.Description,
		&kind,
		&automation.Enabled,
		&automation.Trigger.Type,
		&triggerConfig,
		&automation.SequenceExitOnReply,
		&automation.SequenceExitOnConvert,
		&automation.CreatedAt,
		&automation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	automation.Kind = models.AutomationKind(kind)
	automation.Trigger.Config = map[string]any{}

	if len(triggerConfig) > 0 {
		err = json.Unmarshal(triggerConfig, &automation.Trigger.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger config: %w", err)
		}
	}

	return &automation, nil
}

func (r *AutomationRepository) loadSteps(ctx context.Context, automation *models.Automation) error {
	query := `
		SELECT id, type, config
		FROM automation_steps
		WHERE automation_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, automation.ID)
	if err != nil {
		return fmt.Errorf("failed to query steps: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	automation.Steps = make([]*models.Step, 0)

	for rows.Next() {
		var (
			step   models.Step
			config []byte
		)

		err = rows.Scan(&step.ID, &step.Type, &config)
		if err != nil {
			return fmt.Errorf("failed to scan step: %w", err)
		}

		step.Config = map[string]any{}

		if len(config) > 0 {
			err = json.Unmarshal(config, &step.Config)
			if err != nil {
				return fmt.Errorf("failed to unmarshal config for step %s: %w", step.ID, err)
			}
		}

		automation.Steps = append(automation.Steps, &step)
	}

	return rows.Err()
}
