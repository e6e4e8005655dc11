package dynamic

// ToolConfig is one guidance tool declared in YAML. The file supplies the
// investigative content; the category comes from the directory the file
// lives in, so it carries no YAML tag.
type ToolConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Intent tells the calling agent when this playbook applies.
	Intent string `yaml:"intent,omitempty"`

	// ExpectedPatterns enumerate the graph shapes the investigation
	// should surface.
	ExpectedPatterns []PatternConfig `yaml:"expected_patterns,omitempty"`

	// ReferenceCypher is the canonical query for the investigation,
	// returned verbatim so the agent can run or adapt it.
	ReferenceCypher string `yaml:"reference_cypher,omitempty"`

	// ReferenceSchema lists the labels and relationship types the
	// reference query assumes.
	ReferenceSchema *ReferenceSchemaConfig `yaml:"reference_schema,omitempty"`

	// Parameters are the placeholders of the reference query.
	Parameters []ParameterConfig `yaml:"parameters,omitempty"`

	Category string `yaml:"-"`
}

// PatternConfig describes one suspicious shape: which entity to look at,
// what it may share, and what makes the sharing anomalous.
type PatternConfig struct {
	Entity         string   `yaml:"entity"`
	SharedElements []string `yaml:"shared_elements,omitempty"`
	Anomaly        string   `yaml:"anomaly"`
}

// ReferenceSchemaConfig names the graph vocabulary a reference query uses.
type ReferenceSchemaConfig struct {
	Labels        []string `yaml:"labels,omitempty"`
	Relationships []string `yaml:"relationships,omitempty"`
}

// ParameterConfig declares one placeholder of the reference query. Type is
// a JSON Schema primitive name; leaving it empty is allowed.
type ParameterConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
}
