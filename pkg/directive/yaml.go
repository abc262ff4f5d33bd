package directive

// yamlDirective is the intermediate struct for parsing directive YAML files.
type yamlDirective struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Kind             string   `yaml:"kind"`
	Keyword          string   `yaml:"keyword"`
	Pattern          string   `yaml:"pattern"`
	Severity         string   `yaml:"severity,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	References       []string `yaml:"references,omitempty"`
}

// yamlDirectivesFile is the top-level structure: a "directives" array.
type yamlDirectivesFile struct {
	Directives []yamlDirective `yaml:"directives"`
}
