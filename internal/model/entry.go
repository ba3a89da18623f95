package model

// TechnologyEntry is one deduplicated technology in the final taxonomy.
// Exactly one entry exists per normalized key; Sources is the union of the
// provenance of every raw signal merged into it, in first-seen order, and
// Confidence is the maximum observed across the merge.
type TechnologyEntry struct {
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Sources    []string          `json:"sources"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`

	// Routing fields, implied by the entry's position in the output.
	Key         string `json:"-"`
	Category    string `json:"-"`
	Subcategory string `json:"-"`
}
