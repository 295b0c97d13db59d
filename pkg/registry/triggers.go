package registry

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sponsorlab/sponsorflow/pkg/models"
)

// Built-in trigger types. The external executor decides when these fire;
// the editor only selects and configures them.
const (
	TriggerTypeLeadCreated      = "lead_created"
	TriggerTypeSponsorSigned    = "sponsor_signed"
	TriggerTypeProposalAccepted = "proposal_accepted"
	TriggerTypeContractExpiring = "contract_expiring"
	TriggerTypeFormSubmitted    = "form_submitted"
	TriggerTypeSchedule         = "schedule"
	TriggerTypeTagAdded         = "tag_added"
)

func registerBuiltinTriggerTypes(r *Registry) {
	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeLeadCreated,
		Label:       "Nuovo lead",
		Description: "Si attiva quando viene creato un nuovo lead sponsor",
		Color:       "#2563eb",
		Icon:        "user-plus",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"source": {Type: "string", Enum: []any{"website", "referral", "import", "manual"}, Description: "Limita ai lead provenienti da questa fonte"},
			},
		},
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeSponsorSigned,
		Label:       "Sponsor firmato",
		Description: "Si attiva alla firma di un contratto di sponsorizzazione",
		Color:       "#16a34a",
		Icon:        "pen-tool",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"segment": {Type: "string", Description: "Limita agli sponsor del segmento indicato"},
			},
		},
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeProposalAccepted,
		Label:       "Proposta accettata",
		Description: "Si attiva quando lo sponsor accetta una proposta",
		Color:       "#9333ea",
		Icon:        "thumbs-up",
		Schema:      &models.JSONSchema{Type: "object", Properties: map[string]*models.Property{}},
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeContractExpiring,
		Label:       "Contratto in scadenza",
		Description: "Si attiva N giorni prima della scadenza del contratto",
		Color:       "#f59e0b",
		Icon:        "calendar",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"days_before": {Type: "integer", Minimum: intPtr(1), Description: "Giorni di anticipo"},
			},
			Required: []string{"days_before"},
		},
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeFormSubmitted,
		Label:       "Form compilato",
		Description: "Si attiva alla compilazione di un form del catalogo",
		Color:       "#0891b2",
		Icon:        "file-text",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"form_id": {Type: "string", MinLength: intPtr(1)},
			},
			Required: []string{"form_id"},
		},
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeSchedule,
		Label:       "Pianificato",
		Description: "Si attiva secondo un'espressione cron",
		Color:       "#dc2626",
		Icon:        "clock",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"cron": {Type: "string", Description: "Espressione cron a 5 campi (es. '0 9 * * 1')", MinLength: intPtr(1)},
			},
			Required: []string{"cron"},
		},
		ValidateConfig: validateScheduleConfig,
	})

	r.RegisterTriggerType(&models.Component{
		Value:       TriggerTypeTagAdded,
		Label:       "Tag aggiunto",
		Description: "Si attiva quando un tag viene aggiunto al record",
		Color:       "#64748b",
		Icon:        "tag",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"tag": {Type: "string", MinLength: intPtr(1)},
			},
			Required: []string{"tag"},
		},
	})
}

func validateScheduleConfig(config map[string]any) error {
	expr, _ := config["cron"].(string)
	if expr == "" {
		return errors.New("schedule trigger cron expression is required")
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	return nil
}
