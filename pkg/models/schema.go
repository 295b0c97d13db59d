package models

// JSONSchema represents a JSON Schema for trigger and step configuration
// validation.
type JSONSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property represents a JSON Schema property.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`
	Format      string `json:"format,omitempty"`
	MinLength   *int   `json:"minLength,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
}

// ConfigValidator performs type-specific configuration checks that JSON
// Schema cannot express (for example cron expression parsing).
type ConfigValidator func(config map[string]any) error

// Component is a step type or trigger type registered in the system,
// with the display metadata and config schema the editor needs.
type Component struct {
	Value       string          `json:"value"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Color       string          `json:"color,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Schema      *JSONSchema     `json:"schema,omitempty"`
	// RequireOneOf lists config keys of which at least one must carry a
	// value greater than zero (e.g. a delay's days/hours/minutes).
	RequireOneOf []string `json:"require_one_of,omitempty"`

	ValidateConfig ConfigValidator `json:"-"`
}

// ConfigKeyAllowed reports whether the schema declares the given config key.
// A component without a schema accepts no keys.
func (c *Component) ConfigKeyAllowed(key string) bool {
	if c.Schema == nil {
		return false
	}

	_, ok := c.Schema.Properties[key]

	return ok
}
