package editor

import (
	"fmt"
	"strings"

	"github.com/sponsorlab/sponsorflow/pkg/models"
	"github.com/sponsorlab/sponsorflow/pkg/registry"
)

// NotConfigured is the placeholder summary for steps whose required
// configuration is still missing.
const NotConfigured = "Non configurato"

type summaryFunc func(config map[string]any) string

var summaries = map[string]summaryFunc{
	registry.StepTypeDelay:             delaySummary,
	registry.StepTypeWebhookCall:       webhookSummary,
	registry.StepTypeSendEmail:         sendEmailSummary,
	registry.StepTypeCreateTask:        createTaskSummary,
	registry.StepTypeUpdateRecordField: updateFieldSummary,
	registry.StepTypeEnrollInSequence:  enrollSummary,
	registry.StepTypeConditionalBranch: conditionSummary,
	registry.StepTypeSendMessage:       sendMessageSummary,
	registry.StepTypeAddTag:            addTagSummary,
}

// Summary produces the short, localized description of a step's current
// configuration used by the compact list rendering. Unknown step types
// yield an empty string. No side effects.
func Summary(step *models.Step) string {
	fn, ok := summaries[step.Type]
	if !ok {
		return ""
	}

	return fn(step.Config)
}

func delaySummary(config map[string]any) string {
	days := intValue(config["days"])
	hours := intValue(config["hours"])
	minutes := intValue(config["minutes"])

	if days <= 0 && hours <= 0 && minutes <= 0 {
		return NotConfigured
	}

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dg", days))
	}

	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}

	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return "Attendi " + strings.Join(parts, " ")
}

func webhookSummary(config map[string]any) string {
	url, _ := config["url"].(string)
	if url == "" {
		return NotConfigured
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = "POST"
	}

	return method + " " + url
}

func sendEmailSummary(config map[string]any) string {
	if subject, _ := config["subject"].(string); subject != "" {
		return fmt.Sprintf("Invia email %q", subject)
	}

	if templateID, _ := config["template_id"].(string); templateID != "" {
		return "Invia email " + templateID
	}

	return NotConfigured
}

func createTaskSummary(config map[string]any) string {
	title, _ := config["title"].(string)
	if title == "" {
		return NotConfigured
	}

	return fmt.Sprintf("Crea attività %q", title)
}

func updateFieldSummary(config map[string]any) string {
	field, _ := config["field"].(string)
	if field == "" {
		return NotConfigured
	}

	value, _ := config["value"].(string)

	return fmt.Sprintf("Imposta %s = %q", field, value)
}

func enrollSummary(config map[string]any) string {
	sequenceID, _ := config["sequence_id"].(string)
	if sequenceID == "" {
		return NotConfigured
	}

	return "Iscrivi alla sequenza " + sequenceID
}

func conditionSummary(config map[string]any) string {
	field, _ := config["field"].(string)
	if field == "" {
		return NotConfigured
	}

	operator, _ := config["operator"].(string)
	if operator == "" {
		operator = "eq"
	}

	value, _ := config["value"].(string)

	return fmt.Sprintf("Se %s %s %q", field, operator, value)
}

func sendMessageSummary(config map[string]any) string {
	body, _ := config["body"].(string)
	if body == "" {
		return NotConfigured
	}

	return "Invia messaggio"
}

func addTagSummary(config map[string]any) string {
	tag, _ := config["tag"].(string)
	if tag == "" {
		return NotConfigured
	}

	return fmt.Sprintf("Aggiungi tag %q", tag)
}

// intValue coerces numeric config values: JSON decoding yields float64,
// form handling may yield int.
func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
