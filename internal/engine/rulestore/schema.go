package rulestore

// YAML document layout for rule configuration. Kept separate from the Store so
// the wire schema can evolve without leaking into the matcher code.

type document struct {
	Categories []categoryDoc   `yaml:"categories"`
	Rules      ruleTables      `yaml:"rules"`
	Hints      hintTables      `yaml:"hints"`
	Frameworks frameworkTables `yaml:"frameworks"`
}

type categoryDoc struct {
	Name              string           `yaml:"name"`
	DisplayName       string           `yaml:"display_name"`
	Icon              string           `yaml:"icon"`
	Description       string           `yaml:"description"`
	Color             string           `yaml:"color"`
	EmptyStateMessage string           `yaml:"empty_state_message"`
	Subcategories     []subcategoryDoc `yaml:"subcategories"`
}

type subcategoryDoc struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Icon        string `yaml:"icon"`
}

// ruleTarget is the part every rule kind shares: where a match lands and how
// confident the rule is.
type ruleTarget struct {
	Category    string            `yaml:"category"`
	Subcategory string            `yaml:"subcategory"`
	Confidence  float64           `yaml:"confidence"`
	Metadata    map[string]string `yaml:"metadata"`
}

type ruleTables struct {
	Exact   []exactDoc   `yaml:"exact"`
	Keyword []keywordDoc `yaml:"keyword"`
	Regex   []regexDoc   `yaml:"regex"`
}

type exactDoc struct {
	Pattern    string `yaml:"pattern"`
	ruleTarget `yaml:",inline"`
}

type keywordDoc struct {
	Keywords   []string `yaml:"keywords"`
	ruleTarget `yaml:",inline"`
}

type regexDoc struct {
	Pattern    string `yaml:"pattern"`
	ruleTarget `yaml:",inline"`
}

type hintTables struct {
	Extensions []hintDoc `yaml:"extensions"`
	Filenames  []hintDoc `yaml:"filenames"`
}

type hintDoc struct {
	Pattern    string `yaml:"pattern"`
	Name       string `yaml:"name"`
	ruleTarget `yaml:",inline"`
}

type frameworkTables struct {
	Primary map[string][]string `yaml:"primary"`
	Groups  []groupDoc          `yaml:"groups"`
}

type groupDoc struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}
