package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/validation"
)

// HTTPGateway talks to the automation REST API using the legacy wire
// payload.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPGateway(baseURL string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (g *HTTPGateway) LoadAutomation(ctx context.Context, id string) (*models.Automation, error) {
	var payload models.AutomationPayload

	err := g.do(ctx, http.MethodGet, "/automations/"+url.PathEscape(id), nil, &payload)
	if err != nil {
		return nil, err
	}

	return models.FromPayload(&payload), nil
}

func (g *HTTPGateway) SaveAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error) {
	payload := automation.ToPayload()

	method := http.MethodPost
	path := "/automations"

	if automation.ID != "" {
		method = http.MethodPut
		path = "/automations/" + url.PathEscape(automation.ID)
	}

	var saved models.AutomationPayload

	err := g.do(ctx, method, path, payload, &saved)
	if err != nil {
		return nil, err
	}

	return models.FromPayload(&saved), nil
}

func (g *HTTPGateway) ListExecutions(ctx context.Context, automationID string, perPage int) (*ExecutionList, error) {
	if perPage <= 0 {
		perPage = 20
	}

	path := "/automations/" + url.PathEscape(automationID) + "/executions?per_page=" + strconv.Itoa(perPage)

	var list ExecutionList

	err := g.do(ctx, http.MethodGet, path, nil, &list)
	if err != nil {
		return nil, err
	}

	return &list, nil
}

func (g *HTTPGateway) ExecutionDetail(ctx context.Context, executionID string) (*models.Execution, error) {
	var execution models.Execution

	err := g.do(ctx, http.MethodGet, "/executions/"+url.PathEscape(executionID), nil, &execution)
	if err != nil {
		return nil, err
	}

	return &execution, nil
}

func (g *HTTPGateway) TestRun(ctx context.Context, automationID string) error {
	return g.do(ctx, http.MethodPost, "/automations/"+url.PathEscape(automationID)+"/test", nil, nil)
}

// do performs one request and decodes the response into out when given.
// 404 maps to ErrNotFound, 422 to RejectedError, everything else outside
// 2xx to TransportError.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			g.logger.Warn("failed to close response body", "op", op, "error", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return decodeRejection(resp.Body)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	return nil
}

func decodeRejection(body io.Reader) error {
	var rejection struct {
		Errors []validation.FieldError `json:"errors"`
	}

	err := json.NewDecoder(body).Decode(&rejection)
	if err != nil {
		return &RejectedError{}
	}

	return &RejectedError{Errors: rejection.Errors}
}
