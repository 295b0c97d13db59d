package registry

import "github.com/sponsorlab/sponsorflow/pkg/models"

// Built-in step types. Changing a step's type is not supported by the
// editor (remove and insert instead), so the set here is closed.
const (
	StepTypeSendEmail         = "send_email"
	StepTypeCreateTask        = "create_task"
	StepTypeDelay             = "delay"
	StepTypeConditionalBranch = "conditional_branch"
	StepTypeWebhookCall       = "webhook_call"
	StepTypeUpdateRecordField = "update_record_field"
	StepTypeEnrollInSequence  = "enroll_in_sequence"
	StepTypeSendMessage       = "send_message"
	StepTypeAddTag            = "add_tag"
)

func registerBuiltinStepTypes(r *Registry) {
	r.RegisterStepType(&models.Component{
		Value:       StepTypeSendEmail,
		Label:       "Invia email",
		Description: "Invia una email allo sponsor usando un template",
		Color:       "#2563eb",
		Icon:        "mail",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Invia email",
			Properties: map[string]*models.Property{
				"template_id": {Type: "string", Description: "Template email da inviare", MinLength: intPtr(1)},
				"subject":     {Type: "string", Description: "Oggetto, se diverso dal template"},
			},
			Required: []string{"template_id"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeCreateTask,
		Label:       "Crea attività",
		Description: "Crea un'attività assegnata al commerciale dello sponsor",
		Color:       "#16a34a",
		Icon:        "check-square",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Crea attività",
			Properties: map[string]*models.Property{
				"title":       {Type: "string", Description: "Titolo dell'attività", MinLength: intPtr(1)},
				"due_in_days": {Type: "integer", Description: "Scadenza in giorni dalla creazione", Minimum: intPtr(0)},
			},
			Required: []string{"title"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeDelay,
		Label:       "Attendi",
		Description: "Sospende la sequenza per l'intervallo indicato",
		Color:       "#f59e0b",
		Icon:        "clock",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Attendi",
			Properties: map[string]*models.Property{
				"days":    {Type: "integer", Minimum: intPtr(0)},
				"hours":   {Type: "integer", Minimum: intPtr(0)},
				"minutes": {Type: "integer", Minimum: intPtr(0)},
			},
		},
		RequireOneOf: []string{"days", "hours", "minutes"},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeConditionalBranch,
		Label:       "Condizione",
		Description: "Prosegue solo se il campo soddisfa la condizione",
		Color:       "#9333ea",
		Icon:        "git-branch",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Condizione",
			Properties: map[string]*models.Property{
				"field":    {Type: "string", Description: "Campo del record da confrontare", MinLength: intPtr(1)},
				"operator": {Type: "string", Enum: []any{"eq", "neq", "gt", "lt", "contains"}, Default: "eq"},
				"value":    {Type: "string", Description: "Valore di confronto"},
			},
			Required: []string{"field"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeWebhookCall,
		Label:       "Chiama webhook",
		Description: "Invoca un endpoint HTTP esterno",
		Color:       "#dc2626",
		Icon:        "globe",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Chiama webhook",
			Properties: map[string]*models.Property{
				"url":    {Type: "string", Format: "uri", Description: "URL da invocare", MinLength: intPtr(1)},
				"method": {Type: "string", Enum: []any{"GET", "POST", "PUT", "DELETE"}, Default: "POST"},
			},
			Required: []string{"url"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeUpdateRecordField,
		Label:       "Aggiorna campo",
		Description: "Imposta un campo del record che ha attivato l'automazione",
		Color:       "#0891b2",
		Icon:        "edit",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Aggiorna campo",
			Properties: map[string]*models.Property{
				"field": {Type: "string", MinLength: intPtr(1)},
				"value": {Type: "string"},
			},
			Required: []string{"field", "value"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeEnrollInSequence,
		Label:       "Iscrivi a sequenza",
		Description: "Inserisce il contatto in un'altra sequenza email",
		Color:       "#4f46e5",
		Icon:        "list-plus",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Iscrivi a sequenza",
			Properties: map[string]*models.Property{
				"sequence_id": {Type: "string", MinLength: intPtr(1)},
			},
			Required: []string{"sequence_id"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeSendMessage,
		Label:       "Invia messaggio",
		Description: "Invia un messaggio in chat allo sponsor",
		Color:       "#0d9488",
		Icon:        "message-circle",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Invia messaggio",
			Properties: map[string]*models.Property{
				"body": {Type: "string", MinLength: intPtr(1)},
			},
			Required: []string{"body"},
		},
	})

	r.RegisterStepType(&models.Component{
		Value:       StepTypeAddTag,
		Label:       "Aggiungi tag",
		Description: "Aggiunge un tag al record",
		Color:       "#64748b",
		Icon:        "tag",
		Schema: &models.JSONSchema{
			Type:  "object",
			Title: "Aggiungi tag",
			Properties: map[string]*models.Property{
				"tag": {Type: "string", MinLength: intPtr(1)},
			},
			Required: []string{"tag"},
		},
	})
}

func intPtr(v int) *int {
	return &v
}
