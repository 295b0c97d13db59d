// Package viewer drives the execution log panel of the editor: a small
// state machine over the gateway's execution endpoints.
package viewer

import (
	"context"
	"log/slog"

	"github.com/sponsorlab/sponsorflow/pkg/gateway"
	"github.com/sponsorlab/sponsorflow/pkg/models"
)

// State names the screen the viewer is showing.
type State string

const (
	StateClosed       State = "closed"
	StateListLoaded   State = "list_loaded"
	StateDetailLoaded State = "detail_loaded"
)

// Viewer holds the execution log panel state for one automation. It is
// used from a single editing session; no internal locking. A transport
// failure never changes the current state: the previous screen stays up
// and Notice carries a transient message for the UI to flash.
type Viewer struct {
	gateway gateway.Gateway
	logger  *slog.Logger
	perPage int

	state        State
	automationID string
	list         *gateway.ExecutionList
	detail       *models.Execution
	notice       string
}

func New(gw gateway.Gateway, perPage int, logger *slog.Logger) *Viewer {
	if perPage <= 0 {
		perPage = 20
	}

	return &Viewer{
		gateway: gw,
		logger:  logger,
		perPage: perPage,
		state:   StateClosed,
	}
}

func (v *Viewer) State() State {
	return v.state
}

// List returns the loaded page, nil while closed.
func (v *Viewer) List() *gateway.ExecutionList {
	return v.list
}

// Detail returns the loaded execution, nil unless a detail is shown.
func (v *Viewer) Detail() *models.Execution {
	return v.detail
}

// Notice returns the transient message of the last failed transition and
// clears it.
func (v *Viewer) Notice() string {
	notice := v.notice
	v.notice = ""

	return notice
}

// Open loads the first page of the log for an automation and shows the
// list. On transport failure the viewer stays closed.
func (v *Viewer) Open(ctx context.Context, automationID string) error {
	list, err := v.gateway.ListExecutions(ctx, automationID, v.perPage)
	if err != nil {
		v.fail(ctx, "load execution log", err)

		return err
	}

	v.state = StateListLoaded
	v.automationID = automationID
	v.list = list
	v.detail = nil

	return nil
}

// Select loads one execution's detail from the shown list. Ignored while
// no list is shown.
func (v *Viewer) Select(ctx context.Context, executionID string) error {
	if v.state == StateClosed {
		return nil
	}

	detail, err := v.gateway.ExecutionDetail(ctx, executionID)
	if err != nil {
		v.fail(ctx, "load execution detail", err)

		return err
	}

	v.state = StateDetailLoaded
	v.detail = detail

	return nil
}

// Back returns from the detail to the list. Ignored elsewhere.
func (v *Viewer) Back() {
	if v.state != StateDetailLoaded {
		return
	}

	v.state = StateListLoaded
	v.detail = nil
}

// Refresh reloads the current list page. Ignored while closed; on
// failure the stale list stays up.
func (v *Viewer) Refresh(ctx context.Context) error {
	if v.state == StateClosed {
		return nil
	}

	list, err := v.gateway.ListExecutions(ctx, v.automationID, v.perPage)
	if err != nil {
		v.fail(ctx, "refresh execution log", err)

		return err
	}

	v.list = list

	return nil
}

// Close discards all loaded data.
func (v *Viewer) Close() {
	v.state = StateClosed
	v.automationID = ""
	v.list = nil
	v.detail = nil
	v.notice = ""
}

func (v *Viewer) fail(ctx context.Context, op string, err error) {
	v.notice = "Impossibile caricare il registro esecuzioni"
	v.logger.WarnContext(ctx, "execution log request failed", "op", op, "error", err)
}
