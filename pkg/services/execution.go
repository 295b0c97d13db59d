package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/persistence"
)

// Execution exposes the execution log written by the external executor.
type Execution struct {
	persistence persistence.Persistence
	logger      *slog.Logger
}

func NewExecution(persistence persistence.Persistence, logger *slog.Logger) *Execution {
	return &Execution{
		persistence: persistence,
		logger:      logger,
	}
}

// ListExecutionsRequest contains options for listing executions of one
// automation.
type ListExecutionsRequest struct {
	AutomationID string
	Page         int
	PerPage      int
}

// ListExecutionsResponse contains one page of the execution log.
type ListExecutionsResponse struct {
	Executions  []*models.Execution `json:"executions"`
	TotalCount  int64               `json:"total_count"`
	Page        int                 `json:"page"`
	PerPage     int                 `json:"per_page"`
	HasNextPage bool                `json:"has_next_page"`
}

// List returns one page of executions for an automation, newest first.
// The automation must exist.
func (s *Execution) List(ctx context.Context, req ListExecutionsRequest) (*ListExecutionsResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}

	if req.PerPage <= 0 || req.PerPage > 100 {
		req.PerPage = 20
	}

	_, err := s.persistence.AutomationByID(ctx, req.AutomationID)
	if err != nil {
		return nil, err
	}

	result, err := s.persistence.ExecutionsByAutomation(ctx, req.AutomationID, persistence.ExecutionListOptions{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return &ListExecutionsResponse{
		Executions:  result.Executions,
		TotalCount:  result.TotalCount,
		Page:        req.Page,
		PerPage:     req.PerPage,
		HasNextPage: result.HasNextPage,
	}, nil
}

// FetchByID returns one execution including per-step outcomes.
func (s *Execution) FetchByID(ctx context.Context, id string) (*models.Execution, error) {
	execution, err := s.persistence.ExecutionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return execution, nil
}
